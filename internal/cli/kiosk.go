package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/audio"
	"holo-museum-guide/internal/audio/device"
	"holo-museum-guide/internal/domain"
)

var errQuit = errors.New("quit")

// NewKioskCmd runs a single local session driven from stdin, with the
// ambient synthesizer playing on the local audio device.
func NewKioskCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "kiosk",
		Short: "Run one local guide session fed from stdin",
		Long: `Run one local guide session. Each stdin line is one event:
  start | found <marker> | lost <marker> | pose <cx> <cy> <cz> [<marker> <x> <y> <z>]...
  quiz | answer <option> | exit | spin | 360 | wireframe | reset | info | photo
  hotspot <title> | <text> | say <transcript> | saved <file> | quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKiosk(cmd.Context(), *configPath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runKiosk(ctx context.Context, configPath string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	ambience := audio.NewAmbience(audio.NewParam(audio.InitialGain, nil))
	engine := &ambientEngine{enabled: rt.cfg.Audio.Enabled, ambience: ambience, logger: rt.logger}
	defer engine.Close()

	console := &consoleOutput{w: out}
	session, err := rt.service.Open(ctx, app.Deps{
		Speaker:   console,
		Presenter: console,
		Gains:     []app.GainSink{ambience.Gain()},
		Audio:     engine,
	})
	if err != nil {
		return err
	}
	defer rt.service.Close(session.ID())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer cancel()
		feedKiosk(in, session, console, rt.logger)
	}()

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// feedKiosk posts one event per line until EOF or "quit".
func feedKiosk(in io.Reader, session *app.Session, console *consoleOutput, logger *zap.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		ev, err := parseKioskLine(scanner.Text())
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			console.printf("! %v\n", err)
			continue
		}
		if ev == nil {
			continue
		}
		if err := session.Post(ev); err != nil {
			logger.Debug("kiosk event dropped", zap.Error(err))
			return
		}
	}
}

var kioskActions = map[string]app.Action{
	"start":     app.ActionStart,
	"quiz":      app.ActionStartQuiz,
	"exit":      app.ActionExitQuiz,
	"spin":      app.ActionToggleRotation,
	"360":       app.ActionToggle360,
	"wireframe": app.ActionToggleWireframe,
	"reset":     app.ActionResetView,
	"info":      app.ActionInfo,
	"photo":     app.ActionSnapshot,
}

// parseKioskLine maps a stdin line to an event. Blank lines yield nil.
func parseKioskLine(line string) (app.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	if action, ok := kioskActions[cmd]; ok {
		return app.UserAction{Action: action}, nil
	}
	switch cmd {
	case "quit":
		return nil, errQuit
	case "found", "lost":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s needs a marker id", cmd)
		}
		if cmd == "found" {
			return app.MarkerFound{MarkerID: args[0]}, nil
		}
		return app.MarkerLost{MarkerID: args[0]}, nil
	case "pose":
		return parsePose(args)
	case "answer":
		if rest == "" {
			return nil, fmt.Errorf("answer needs an option")
		}
		return app.UserAction{Action: app.ActionSelectOption, Option: rest}, nil
	case "hotspot":
		title, text, ok := strings.Cut(rest, "|")
		if !ok {
			return nil, fmt.Errorf("hotspot needs <title> | <text>")
		}
		return app.UserAction{Action: app.ActionShowHotspot, Title: strings.TrimSpace(title), Text: strings.TrimSpace(text)}, nil
	case "say":
		return app.Transcript{Text: rest}, nil
	case "saved":
		return app.SnapshotSaved{FileName: rest}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func parsePose(args []string) (app.Event, error) {
	if len(args) < 3 || (len(args)-3)%4 != 0 {
		return nil, fmt.Errorf("pose needs <cx> <cy> <cz> followed by <marker> <x> <y> <z> groups")
	}
	camera, err := parseVec(args[:3])
	if err != nil {
		return nil, err
	}
	ev := app.PoseUpdate{Camera: &camera, Markers: make(map[string]domain.Vec3)}
	for i := 3; i < len(args); i += 4 {
		pos, err := parseVec(args[i+1 : i+4])
		if err != nil {
			return nil, err
		}
		ev.Markers[args[i]] = pos
	}
	return ev, nil
}

func parseVec(parts []string) (domain.Vec3, error) {
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return domain.Vec3{}, fmt.Errorf("bad coordinate %q", p)
		}
		xyz[i] = v
	}
	return domain.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// consoleOutput prints narration and display updates for the kiosk operator.
type consoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *consoleOutput) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

func (c *consoleOutput) Cancel() {}

func (c *consoleOutput) Speak(u domain.Utterance) { c.printf("[speak] %s\n", u.Text) }

func (c *consoleOutput) ShowStatus(s domain.Status) {
	if s.Name != "" {
		c.printf("[status] %s: %s\n", s.Label, s.Name)
		return
	}
	c.printf("[status] %s\n", s.Label)
}

func (c *consoleOutput) ShowEntity(v domain.EntityView) {
	if !v.Visible {
		return
	}
	c.printf("[entity] %s spin=%t 360=%t wireframe=%t\n", v.EntityID, v.Spinning, v.View360, v.Wireframe)
}

func (c *consoleOutput) ShowQuiz(v domain.QuizView) {
	switch {
	case !v.Visible:
		c.printf("[quiz] closed\n")
	case v.Verdict != "":
		c.printf("[quiz] %s\n", v.Verdict)
	default:
		choices := make([]string, 0, len(v.Choices))
		for _, ch := range v.Choices {
			choices = append(choices, ch.Text)
		}
		c.printf("[quiz] %s (%s)\n", v.Question, strings.Join(choices, " / "))
	}
}

func (c *consoleOutput) ShowHotspot(v domain.HotspotView) {
	if v.Visible {
		c.printf("[hotspot] %s: %s\n", v.Title, v.Text)
	}
}

func (c *consoleOutput) ShowVoiceFeedback(v domain.VoiceFeedback) {
	if v.Visible {
		c.printf("[voice] \"%s\"\n", v.Text)
	}
}

func (c *consoleOutput) RequestCapture(fileName string) {
	c.printf("[capture] %s\n", fileName)
}

// ambientEngine starts the synthesizer on the local device on first use.
type ambientEngine struct {
	enabled  bool
	ambience *audio.Ambience
	logger   *zap.Logger
	player   *device.Player
}

func (e *ambientEngine) Start() error {
	if !e.enabled || e.player != nil {
		return nil
	}
	player, err := device.Play(e.ambience, e.logger)
	if err != nil {
		return err
	}
	e.player = player
	return nil
}

func (e *ambientEngine) Close() {
	if err := e.player.Close(); err != nil {
		e.logger.Debug("close audio player", zap.Error(err))
	}
}
