// Package datasets builds the dataset catalog from configuration.
//
// The general CVE dataset and the CHERI vs Rust comparison dataset are always
// offered. The "no revocation" variants are registered after them only when
// their files are configured, so the default menu is:
//
//	1. CVEs Dataset
//	2. Rust vs CHERI Dataset
//	3. Quit
package datasets

import (
	"github.com/JonMunkholm/cheri-cve/internal/config"
	"github.com/JonMunkholm/cheri-cve/internal/core"
)

// Dataset keys.
const (
	KeyCVEs                   = "cves"
	KeyComparison             = "cheri_vs_rust"
	KeyCVEsNoRevocation       = "cves_no_revocation"
	KeyComparisonNoRevocation = "cheri_vs_rust_no_revocation"
)

// Catalog returns the datasets configured by cfg in menu order.
func Catalog(cfg config.DataConfig) *core.Catalog {
	c := core.NewCatalog(
		core.DatasetInfo{
			Key:   KeyCVEs,
			Label: "CVEs Dataset",
			Path:  cfg.Resolve(cfg.CVEFile),
			Kind:  core.KindGeneral,
			Order: 1,
		},
		core.DatasetInfo{
			Key:   KeyComparison,
			Label: "Rust vs CHERI Dataset",
			Path:  cfg.Resolve(cfg.ComparisonFile),
			Kind:  core.KindComparison,
			Order: 2,
		},
	)

	if cfg.NoRevocationCVEFile != "" {
		c.Register(core.DatasetInfo{
			Key:   KeyCVEsNoRevocation,
			Label: "CVEs Dataset (no revocation)",
			Path:  cfg.Resolve(cfg.NoRevocationCVEFile),
			Kind:  core.KindGeneral,
			Order: 3,
		})
	}
	if cfg.NoRevocationComparisonFile != "" {
		c.Register(core.DatasetInfo{
			Key:   KeyComparisonNoRevocation,
			Label: "Rust vs CHERI Dataset (no revocation)",
			Path:  cfg.Resolve(cfg.NoRevocationComparisonFile),
			Kind:  core.KindComparison,
			Order: 4,
		})
	}

	return c
}
