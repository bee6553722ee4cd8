package opts

import (
	"github.com/walteh/filemill/pkg/config"
	"github.com/walteh/filemill/pkg/operation"
	"github.com/walteh/filemill/pkg/registry"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config   *config.Config
	Registry *registry.Registry
	Operator operation.Operator
	Quiet    bool
}
