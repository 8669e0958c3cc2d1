package auth

import (
	"fmt"

	"github.com/custodia-labs/bastion-cli/internal/core/ports/driven"
)

// Flow names accepted in configuration and on the command line.
const (
	FlowLoopback = "loopback"
	FlowManual   = "manual"
)

// NewCodeFlow selects a code flow by name. Empty defaults to loopback.
func NewCodeFlow(name string, port int) (driven.CodeFlow, error) {
	switch name {
	case "", FlowLoopback:
		return NewLoopbackFlow(port), nil
	case FlowManual:
		return NewManualFlow(), nil
	default:
		return nil, fmt.Errorf("unknown authorization flow %q (expected %q or %q)", name, FlowLoopback, FlowManual)
	}
}
