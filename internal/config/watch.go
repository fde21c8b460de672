package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch reloads the config file at path whenever it changes and calls
// onChange with the fresh config. Reload errors are reported through
// onError, which may be nil. Watching continues for the life of the
// process; viper owns the underlying fsnotify watcher.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := viper.New()

	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}
