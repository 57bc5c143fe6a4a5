package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/aeroproject/aerobot/config"
	"github.com/aeroproject/aerobot/plugins"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variables setting them, first one wins
var envBindings = map[string][]string{
	config.PrefixKey:      {"BOT_PREFIX"},
	config.DebugKey:       {"BOT_DEBUG"},
	metricsAddrFlag:       {"METRICS_ADDR"},
	plugins.StatsURLKey:   {"CLIENT_STATS_URL", "STATS_URL"},
	plugins.APIBaseURLKey: {"API_BASE_URL"},
}

// statsKeys are set at the root (usually from the environment) and copied into the stats plugin section
var statsKeys = []string{plugins.StatsURLKey, plugins.APIBaseURLKey}

// loadDotEnv loads a .env file from the working directory when there is one. Variables already set
// in the environment win
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Error loading .env file: %v", err)
	}
}

func bindEnv(v *viper.Viper) (err error) {
	for key, envNames := range envBindings {
		if err = v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return err
		}
	}

	return nil
}

// layerStatsConfig sets the non-blank root stats keys on the stats plugin configuration section,
// overriding what the config file has there. The whole section is set at once since an override
// of a nested key would hide its siblings from the file
func layerStatsConfig(v *viper.Viper) {
	sectionKey := fmt.Sprintf("%s.%s", config.PluginsKey, plugins.StatsPluginName)

	section := v.GetStringMap(sectionKey)
	overridden := false
	for _, key := range statsKeys {
		if val := v.GetString(key); val != "" {
			section[strings.ToLower(key)] = val
			overridden = true
		}
	}

	if overridden {
		v.Set(sectionKey, section)
	}
}
