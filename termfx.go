// Package termfx renders a tcell screen as a grid of animatable ECS cells.
//
// A Plugin installs one terminal into a scheduler as four ordered stages:
// application systems draw the UI, the sync stage diffs the screen into the
// cell entities, the reset stage restores every cell's rest pose and the
// effects stage distorts them.
//
//	registry := ecs.NewComponentRegistry()
//	termfx.RegisterComponents(registry)
//	storage := ecs.NewStorage(registry)
//	scheduler := ecs.NewScheduler(storage)
//
//	plugin := termfx.New(terminal.DefaultConfig())
//	plugin.AppTick(terminal.DrawSystem(...))
//	term, err := plugin.Install(storage, scheduler)
package termfx

import (
	"errors"

	"github.com/plus3/termfx/ecs"
	"github.com/plus3/termfx/effects"
	"github.com/plus3/termfx/terminal"
)

// ErrInstalled is returned when a plugin is installed a second time.
var ErrInstalled = errors.New("termfx: plugin already installed")

// RegisterComponents registers every component the plugin spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	terminal.RegisterComponents(registry)
	effects.RegisterComponents(registry)
}

// Plugin installs one terminal. Several plugins may share a scheduler as long
// as their configs carry distinct names.
type Plugin struct {
	config  terminal.Config
	options []terminal.Option

	appTick   []ecs.System
	scheduler *ecs.Scheduler
	terminal  *terminal.Terminal

	Sync    *terminal.SyncSystem
	Reset   *terminal.ResetSystem
	Effects *effects.System
}

// New returns a plugin for config. Options are passed on to terminal.New.
func New(config terminal.Config, opts ...terminal.Option) *Plugin {
	return &Plugin{config: config, options: opts}
}

// AppTick adds an application system to the first stage. Systems run in the
// order they were added.
func (p *Plugin) AppTick(system ecs.System) {
	if p.scheduler != nil {
		p.scheduler.RegisterIn(terminal.StageAppTick, system)
		return
	}
	p.appTick = append(p.appTick, system)
}

// Install creates the terminal and registers its stages on scheduler.
func (p *Plugin) Install(storage *ecs.Storage, scheduler *ecs.Scheduler) (*terminal.Terminal, error) {
	if p.terminal != nil {
		return nil, ErrInstalled
	}
	term, err := terminal.New(storage, p.config, p.options...)
	if err != nil {
		return nil, err
	}
	ecs.NewSingleton[terminal.SyncStats](storage)

	p.terminal = term
	p.scheduler = scheduler
	p.Sync = &terminal.SyncSystem{Terminal: term}
	p.Reset = &terminal.ResetSystem{Terminal: term}
	p.Effects = &effects.System{Terminal: term}

	for _, system := range p.appTick {
		scheduler.RegisterIn(terminal.StageAppTick, system)
	}
	p.appTick = nil
	scheduler.RegisterIn(terminal.StageSync, p.Sync)
	scheduler.RegisterIn(terminal.StageResetTransforms, p.Reset)
	scheduler.RegisterIn(terminal.StageEffects, p.Effects)
	return term, nil
}

// Terminal returns the installed terminal, nil before Install.
func (p *Plugin) Terminal() *terminal.Terminal {
	return p.terminal
}
