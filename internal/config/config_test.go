package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("ADMIN_CHAT_IDS", "11, 22 33")
	t.Setenv("REGNO_PREFIX", "GHS")
	t.Setenv("FEE_DUE_DAYS", "45")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "15m")
	t.Setenv("BOT_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AdminChatIDs) != 3 || cfg.AdminChatIDs[2] != 33 {
		t.Fatalf("неожиданные ADMIN_CHAT_IDS: %v", cfg.AdminChatIDs)
	}
	if cfg.RegNoPrefix != "GHS" || cfg.FeeDueDays != 45 || cfg.OverdueSweepInterval != 15*time.Minute {
		t.Fatalf("неожиданная конфигурация: %+v", cfg)
	}
	if cfg.DefaultPassword != "welcome" || cfg.FallbackTuition != 20000 {
		t.Fatalf("значения по умолчанию: %+v", cfg)
	}
}

func TestLoad_BadValues(t *testing.T) {
	t.Run("ids", func(t *testing.T) {
		t.Setenv("ADMIN_CHAT_IDS", "1,x")
		if _, err := Load(); err == nil {
			t.Fatal("ожидали ошибку для ADMIN_CHAT_IDS")
		}
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("OVERDUE_SWEEP_INTERVAL", "soon")
		if _, err := Load(); err == nil {
			t.Fatal("ожидали ошибку для OVERDUE_SWEEP_INTERVAL")
		}
	})
}
