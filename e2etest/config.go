package e2etest

import (
	"time"

	"github.com/status-im/token-supply/config"
)

// Fixture tokens served by the mock mirror node
const (
	PresetToken    = "0.0.859814"
	PagedToken     = "0.0.5005"
	LargeToken     = "0.0.7007"
	PresetName     = "clxy"
	TreasuryA      = "0.0.849428"
	TreasuryB      = "0.0.859877"
	AbsentTreasury = "0.0.859911"
)

// UnreachableSource is allowed for API callers but nothing listens there
const UnreachableSource = "127.0.0.1:1"

// newTestConfig builds a serve-mode configuration against the mock mirror node
func newTestConfig(mirrorHost string) *config.Config {
	cfg := config.Default()
	cfg.Mirror.Host = mirrorHost
	cfg.Mirror.Scheme = "http"
	cfg.Mirror.AllowedSources = []string{UnreachableSource}
	cfg.Server.Port = "0"
	cfg.Logging.Level = "error"
	cfg.Monitor = config.MonitorConfig{
		Enabled:  true,
		Interval: time.Hour,
	}
	cfg.Presets = []config.Preset{
		{
			Name:       PresetName,
			Token:      PresetToken,
			Treasuries: []string{TreasuryA, TreasuryB, AbsentTreasury},
		},
	}
	return cfg
}

// seedMockServer registers the fixture tokens
func seedMockServer(ms *MockServer) {
	ms.AddToken(PresetToken, &MockToken{
		TotalSupply: "100000000000000",
		Decimals:    "6",
		Pages: [][]MockBalance{
			{
				{Account: "0.0.1001", Balance: "10000000000000"},
				{Account: TreasuryA, Balance: "60000000000000"},
			},
			{
				{Account: TreasuryB, Balance: "20000000000000"},
				{Account: "0.0.1002", Balance: "10000000000000"},
			},
		},
	})

	ms.AddToken(PagedToken, &MockToken{
		TotalSupply: "1000",
		Pages: [][]MockBalance{
			{{Account: "0.0.1", Balance: "100"}, {Account: "0.0.2", Balance: "200"}},
			{},
			{{Account: "0.0.3", Balance: "300"}},
			{{Account: "0.0.4", Balance: "400"}},
		},
	})

	ms.AddToken(LargeToken, &MockToken{
		TotalSupply: "123456789012345678901234567890",
		Decimals:    "18",
		Pages: [][]MockBalance{
			{
				{Account: "0.0.10", Balance: "9007199254740993"},
				{Account: "0.0.11", Balance: "123456789012345678901234567890"},
			},
		},
	})
}
