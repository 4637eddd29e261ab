// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "mslgit")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/mslgit.log")
	viper.SetDefault("main.log.maxsizemb", 100)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxagedays", 28)

	viper.SetDefault("store.path", "taxonomy-repo")
	viper.SetDefault("store.defaultbranch", "master")
	viper.SetDefault("store.authorname", "mslgit")
	viper.SetDefault("store.authoremail", "mslgit@localhost")
	viper.SetDefault("store.cachettl", 0)

	viper.SetDefault("diff.detectrenames", true)
	viper.SetDefault("diff.renamethreshold", 0.7)
	viper.SetDefault("diff.genusboost", 0.3)
	viper.SetDefault("diff.familyboost", 0.2)

	viper.SetDefault("mapping.cachesize", 16)
	viper.SetDefault("mapping.namecolumn", "species")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")
}
