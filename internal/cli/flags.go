package cli

import (
	"github.com/spf13/pflag"

	"github.com/alexanderramin/meetmeter/internal/analysis"
)

func addConfigFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "config", "c", "", "Optional config file (yaml, toml or json) layered over the environment")
}

func addPeriodFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "period", "p", analysis.DefaultPeriodLabel, "Time period label passed to the model")
}

func addJSONFlag(fs *pflag.FlagSet, target *bool) {
	fs.BoolVar(target, "json", false, "Print the raw JSON result even on a terminal")
}

func addAddrFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVar(target, "addr", "", "Listen address, overrides HTTP_ADDR")
}
