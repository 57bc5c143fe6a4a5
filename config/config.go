// Package config provides the configuration keys and helpers shared by the bot engine,
// its plugins and the binary
package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// PluginConfig is the configuration of a single plugin, as found under the plugins key
type PluginConfig = viper.Viper

// Configuration keys
const (
	TokenKey                              = "token"                                  // Literal chat token, string value
	TokenEnvKey                           = "tokenEnv"                               // Name of the environment variable holding the token, string value
	TokenFileKey                          = "tokenFile"                              // Path of a file whose first non-blank line is the token, string value
	TokenURLKey                           = "tokenURL"                               // URL of a token-issuing API returning {"token": "..."}, string value
	TokenURLHeadersKey                    = "tokenURLHeaders"                        // Headers to send to the token-issuing API, map of string values
	DebugKey                              = "debug"                                  // Debug mode, boolean value
	PrefixKey                             = "prefix"                                 // Command prefix, string value. Defaults to "!"
	ResponseCacheSizeKey                  = "responseCacheSize"                      // Number of triggering messages to keep responses for, int value. Defaults to 5000
	TimeLocationKey                       = "timeLocation"                           // Time location for scheduled actions, string value. Defaults to Local
	ThreadedRepliesKey                    = "replyBehavior.threadedReplies"          // Reply in threads, boolean value. Defaults to false
	BroadcastThreadedRepliesKey           = "replyBehavior.broadcastThreadedReplies" // Broadcast threaded replies to the channel, boolean value. Defaults to false
	MessageProcessingPartitionCount       = "messageProcessing.partitionCount"       // Number of message processing partitions, power of two int value. Defaults to 16
	MessageProcessingBufferedMessageCount = "messageProcessing.partitionBufferSize"  // Number of buffered messages per partition, int value. Defaults to 10
	PluginsKey                            = "plugins"                                // Root key holding the configuration of each plugin
)

const (
	defaultPrefix                   = "!"
	defaultResponseCacheSize        = 5000
	defaultTimeLocation             = "Local"
	defaultPartitionCount           = 16
	defaultPartitionBufferSize      = 10
	defaultThreadedReplies          = false
	defaultBroadcastThreadedReplies = false
)

// NewViperWithDefaults creates a new viper instance with the default values set
func NewViperWithDefaults() (v *viper.Viper) {
	return LayerConfigWithDefaults(viper.New())
}

// LayerConfigWithDefaults layers the default values under the values already set on v
func LayerConfigWithDefaults(v *viper.Viper) (lv *viper.Viper) {
	v.SetDefault(DebugKey, false)
	v.SetDefault(PrefixKey, defaultPrefix)
	v.SetDefault(ResponseCacheSizeKey, defaultResponseCacheSize)
	v.SetDefault(TimeLocationKey, defaultTimeLocation)
	v.SetDefault(ThreadedRepliesKey, defaultThreadedReplies)
	v.SetDefault(BroadcastThreadedRepliesKey, defaultBroadcastThreadedReplies)
	v.SetDefault(MessageProcessingPartitionCount, defaultPartitionCount)
	v.SetDefault(MessageProcessingBufferedMessageCount, defaultPartitionBufferSize)

	return v
}

// GetTimeLocation returns the time location configured by TimeLocationKey
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	timeLoc, err = time.LoadLocation(v.GetString(TimeLocationKey))
	if err != nil {
		return nil, errors.Wrapf(err, "Error loading time location [%s]", v.GetString(TimeLocationKey))
	}

	return timeLoc, nil
}

// GetPluginConfig returns the configuration of the named plugin. An error is returned
// if the plugin has no configuration at all
func GetPluginConfig(v *viper.Viper, name string) (pc *PluginConfig, err error) {
	pluginKey := fmt.Sprintf("%s.%s", PluginsKey, name)

	if !v.IsSet(pluginKey) {
		return nil, fmt.Errorf("Missing plugin configuration for plugin [%s] at [%s]", name, pluginKey)
	}

	pc = v.Sub(pluginKey)
	if pc == nil {
		return nil, fmt.Errorf("Invalid plugin configuration for plugin [%s]", name)
	}

	return pc, nil
}

// GetPluginConfigOrEmpty returns the configuration of the named plugin or an empty configuration
// if the plugin isn't configured. This is meant for plugins that work fine with their defaults
func GetPluginConfigOrEmpty(v *viper.Viper, name string) (pc *PluginConfig) {
	pc, err := GetPluginConfig(v, name)
	if err != nil {
		return viper.New()
	}

	return pc
}
