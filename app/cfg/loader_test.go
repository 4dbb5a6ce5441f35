package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestGet_PanicsWhenNotLoaded(t *testing.T) {
	saved := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = saved
		if recover() == nil {
			t.Error("Expected Get to panic before Load")
		}
	}()

	Get()
}

func TestGet_ReturnsLoadedConfig(t *testing.T) {
	saved := globalCfg
	defer func() { globalCfg = saved }()

	globalCfg = &Cfg{PollInterval: 900, Debug: true}

	cfg := Get()
	if cfg.PollInterval != 900 {
		t.Errorf("Expected poll interval 900, got %d", cfg.PollInterval)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be set")
	}
}
