package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// applyConfigFlagOverrides copies explicitly set flags into v; flags win
// over every other configuration source.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, flags map[string]string) {
	for name, key := range flags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		switch flag.Value.Type() {
		case "bool":
			if val, err := cmd.Flags().GetBool(name); err == nil {
				v.Set(key, val)
			}
		case "int":
			if val, err := cmd.Flags().GetInt(name); err == nil {
				v.Set(key, val)
			}
		default:
			v.Set(key, flag.Value.String())
		}
	}
}
