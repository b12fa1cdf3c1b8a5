package usecase

import "github.com/libertil/eea-cdrtools/internal/ports"

type InitTool struct {
	initializer ports.ToolInitializer
}

func NewInitTool(initializer ports.ToolInitializer) *InitTool {
	return &InitTool{initializer: initializer}
}

func (uc *InitTool) Execute(dir string, force bool) error {
	return uc.initializer.Init(dir, force)
}
