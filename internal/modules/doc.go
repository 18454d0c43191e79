// Package modules contains the screens of the course wizard.
//
// Each subdirectory is a module that implements the `module.Module` interface.
// Modules are listed in `internal/app/modules.go` and booted by the server on
// the route group that requires an active course.
package modules
