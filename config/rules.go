package config

import (
	"fmt"

	"colonoscopy-scheduler/internal/domain/entity"

	"github.com/spf13/viper"
)

// LoadSchedulingRules reads a deployment's scheduling rules from a YAML or
// JSON file. Sections left out of the file keep their default values; the
// doctor keyword table is replaced wholesale so its order stays the file's.
func LoadSchedulingRules(path string) (entity.SchedulingRules, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return entity.SchedulingRules{}, fmt.Errorf("read scheduling rules %s: %w", path, err)
	}

	var loaded entity.SchedulingRules
	if err := v.Unmarshal(&loaded); err != nil {
		return entity.SchedulingRules{}, fmt.Errorf("decode scheduling rules %s: %w", path, err)
	}

	rules := mergeRules(entity.DefaultSchedulingRules(), loaded)

	if err := rules.Validate(); err != nil {
		return entity.SchedulingRules{}, fmt.Errorf("invalid scheduling rules %s: %w", path, err)
	}

	return rules, nil
}

func mergeRules(base, override entity.SchedulingRules) entity.SchedulingRules {
	if override.Persona != "" {
		base.Persona = override.Persona
	}
	if len(override.Rules) > 0 {
		base.Rules = override.Rules
	}
	if override.Facility != "" {
		base.Facility = override.Facility
	}
	if len(override.Directives) > 0 {
		base.Directives = override.Directives
	}
	if len(override.Flow) > 0 {
		base.Flow = override.Flow
	}
	if override.Closing != "" {
		base.Closing = override.Closing
	}
	if len(override.Doctors) > 0 {
		base.Doctors = override.Doctors
	}
	if len(override.ReplyTriggers) > 0 {
		base.ReplyTriggers = override.ReplyTriggers
	}
	return base
}
