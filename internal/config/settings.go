package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/mithrel/tablemark/internal/render"
	"github.com/mithrel/tablemark/internal/table"
)

// Rules parses the configured emphasis rules.
func Rules(v *viper.Viper) (table.Rules, error) {
	rules, err := table.ParseRules(v.GetStringSlice("rules"))
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return rules, nil
}

// Classes reads the configured markup classes.
func Classes(v *viper.Viper) render.Classes {
	return render.Classes{
		Wrapper:  v.GetString("html.wrapper_class"),
		Table:    v.GetString("html.table_class"),
		Negative: v.GetString("html.negative_class"),
		Positive: v.GetString("html.positive_class"),
		Caution:  v.GetString("html.caution_class"),
	}
}

// RenderOptions builds renderer options from configuration.
func RenderOptions(v *viper.Viper, logger *log.Logger) (render.Options, error) {
	rules, err := Rules(v)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Rules:   rules,
		Classes: Classes(v),
		Escape:  v.GetBool("html.escape"),
		Logger:  logger,
	}, nil
}
