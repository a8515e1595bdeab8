// Package config holds the plain settings struct for bfvm subcommands and
// its defaults. There is no file format or env-var layer here, since a
// single-binary dev tool has no need for a config-file cascade. `bfvm run`
// takes its VM settings from Default and reads its flags separately.
package config

import "bfvm/internal/vm"

// Config is the full set of knobs `bfvm run` and friends expose.
type Config struct {
	TapeSize  int
	Width     vm.Width
	Signed    bool
	Budget    int
	DSN       string
	WatchAddr string
	ShowIR    bool
	ShowJSON  bool
	ShowStats bool
}

// Default mirrors vm.DefaultConfig with a generous per-slice budget.
func Default() Config {
	return Config{
		TapeSize: 65536,
		Width:    vm.Width8,
		Signed:   false,
		Budget:   1 << 20,
	}
}

// VMConfig projects the VM-relevant fields out for vm.New.
func (c Config) VMConfig() vm.Config {
	return vm.Config{TapeSize: c.TapeSize, Width: c.Width, Signed: c.Signed}
}
