package app

import (
	"github.com/specialistvlad/shadergen/internal/registry"
	"github.com/specialistvlad/shadergen/modules/directives"
	"github.com/specialistvlad/shadergen/modules/gotemplate"
)

// coreModules is the list of preprocessors compiled into the shadergen binary.
var coreModules = []registry.Module{
	&directives.Module{},
	&gotemplate.Module{},
}
