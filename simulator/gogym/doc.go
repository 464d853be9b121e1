// Package gogym implements simulators running OpenAI Gym in-process
// through the GoGym bindings (github.com/samuelfneumann/gogym).
//
// GoGym embeds a Python interpreter through cgo, so this package is only
// built with the gogym build tag:
//
//	go build -tags gogym ./...
//
// Before building, ensure a python-3.7.pc file is in a directory
// pointed to by PKG_CONFIG_PATH and that the gym Python package is
// installed. Only environments with Box or Discrete spaces are
// supported, and Atari games should be run through package gymhttp.
package gogym
