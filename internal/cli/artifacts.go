package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"holo-museum-guide/internal/domain"
	infraredis "holo-museum-guide/internal/infra/redis"
)

// NewArtifactsCmd prints the catalog new sessions would be opened with.
func NewArtifactsCmd(configPath *string) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List the artifacts of the configured catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			if refresh {
				if err := invalidateCatalog(cmd.Context(), rt); err != nil {
					return err
				}
			}
			artifacts, err := rt.service.Artifacts(cmd.Context())
			if err != nil {
				return err
			}
			return printArtifacts(cmd.OutOrStdout(), artifacts)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop the Redis catalog cache before listing")
	return cmd
}

func invalidateCatalog(ctx context.Context, rt *runtime) error {
	repo, ok := rt.catalogs.(*infraredis.CatalogRepository)
	if !ok {
		return nil
	}
	return repo.Invalidate(ctx, catalogID(rt.cfg))
}

func printArtifacts(w io.Writer, artifacts []domain.Artifact) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tMARKER\tNAME\tQUIZ")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Key, a.MarkerID, a.Name, a.Quiz.Question)
	}
	return tw.Flush()
}
