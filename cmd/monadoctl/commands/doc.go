// Package commands implements the monadoctl command tree.
//
// Every command that talks to the runtime connects on its own: --lib (or
// library in config.toml) loads that file, otherwise the library is found
// the way OpenXR finds the active runtime. Settings come from
// $XDG_CONFIG_HOME/monadoctl/config.toml and are overridden by flags.
package commands
