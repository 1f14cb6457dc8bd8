package app

import "holo-museum-guide/internal/domain"

// Entities tracks how each artifact's 3D entity is displayed.
type Entities struct {
	presenter Presenter
	views     map[string]*domain.EntityView
	order     []string
	active    string
}

func NewEntities(registry *Registry, presenter Presenter) *Entities {
	e := &Entities{presenter: presenter, views: make(map[string]*domain.EntityView)}
	for _, a := range registry.All() {
		e.views[a.EntityID] = &domain.EntityView{EntityID: a.EntityID}
		e.order = append(e.order, a.EntityID)
	}
	return e
}

// Show makes entityID the only visible entity.
func (e *Entities) Show(entityID string) {
	e.active = entityID
	for _, id := range e.order {
		v := e.views[id]
		v.Visible = id == entityID
		e.presenter.ShowEntity(*v)
	}
}

// Active is the entity last shown, if any. It stays set after tracking is
// lost, the same way the rendered entity keeps its pose.
func (e *Entities) Active() (domain.EntityView, bool) {
	v, ok := e.views[e.active]
	if !ok {
		return domain.EntityView{}, false
	}
	return *v, true
}

// ToggleSpin flips the spin animation of the active entity.
func (e *Entities) ToggleSpin() bool {
	return e.update(func(v *domain.EntityView) { v.Spinning = !v.Spinning })
}

// Toggle360 flips the multi-axis 360 view; disabling it resets rotation.
func (e *Entities) Toggle360() (enabled bool, ok bool) {
	ok = e.update(func(v *domain.EntityView) {
		v.View360 = !v.View360
		enabled = v.View360
	})
	return enabled, ok
}

// ToggleWireframe flips the wireframe material of the active entity.
func (e *Entities) ToggleWireframe() bool {
	return e.update(func(v *domain.EntityView) { v.Wireframe = !v.Wireframe })
}

// Reset clears spin, 360 view and wireframe on the active entity.
func (e *Entities) Reset() bool {
	return e.update(func(v *domain.EntityView) {
		v.Spinning = false
		v.View360 = false
		v.Wireframe = false
	})
}

func (e *Entities) update(fn func(*domain.EntityView)) bool {
	v, ok := e.views[e.active]
	if !ok {
		return false
	}
	fn(v)
	e.presenter.ShowEntity(*v)
	return true
}
