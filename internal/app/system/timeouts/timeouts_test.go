package timeouts

import (
	"testing"
	"time"
)

func TestConfigureIgnoresZero(t *testing.T) {
	defer Reset()
	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short = %v", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium changed to %v", Medium())
	}
	Reset()
	if Current() != (Config{DefaultPing, DefaultShort, DefaultMedium, DefaultLong, DefaultBatch}) {
		t.Errorf("Reset left %+v", Current())
	}
}
