package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/tablemark/internal/present"
)

// CheckConfigValidity reports every configuration problem at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if out := v.GetString("output"); out != "" {
		if _, ok := present.ParseMode(out); !ok {
			add("output %q is not a known mode", out)
		}
	}
	if _, err := Rules(v); err != nil {
		errs = append(errs, err)
	}
	if err := Classes(v).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("html: %w", err))
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr is required")
	}
	if v.GetInt64("http.max_body_bytes") <= 0 {
		add("http.max_body_bytes must be greater than 0")
	}
	if domains := v.GetStringSlice("tls.domains"); len(domains) > 0 {
		if strings.TrimSpace(v.GetString("auth.token")) == "" {
			add("auth.token is required when tls.domains is set")
		}
		for _, d := range domains {
			if strings.TrimSpace(d) == "" || strings.ContainsAny(d, "/: ") {
				add("tls.domains entry %q is not a host name", d)
			}
		}
	}
	cert := strings.TrimSpace(v.GetString("tls.cert_file"))
	key := strings.TrimSpace(v.GetString("tls.key_file"))
	if (cert == "") != (key == "") {
		add("tls.cert_file and tls.key_file must be set together")
	}
	if cert != "" && len(v.GetStringSlice("tls.domains")) > 0 {
		add("tls.cert_file cannot be combined with tls.domains")
	}
	return errors.Join(errs...)
}
