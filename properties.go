// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

// Property keys read by Assembler.Initialize.
const (
	PropertyFacility          = "facility"
	PropertyExtractStackTrace = "extractStackTrace"
	PropertyFilterStackTrace  = "filterStackTrace"
	PropertyMDCProfiling      = "mdcProfiling"
	PropertyIncludeFullMDC    = "includeFullMdc"
	PropertyTimestampPattern  = "timestampPattern"
	PropertyMDCFields         = "mdcFields"
	PropertyDynamicMDCFields  = "dynamicMdcFields"

	// PropertyAdditionalField is suffixed with 0, 1, 2, ... and holds a
	// "name=value" static field.
	PropertyAdditionalField = "additionalField"

	// PropertyAdditionalFieldType is suffixed with 0, 1, 2, ... and holds a
	// "name=type" field type declaration.
	PropertyAdditionalFieldType = "additionalFieldType"
)

// PropertySource is a key/value lookup used to configure an Assembler.
type PropertySource interface {
	// Property returns the value stored under key. The second return value
	// is false if the key is not present.
	Property(key string) (string, bool)
}

// Properties is a PropertySource backed by a map.
type Properties map[string]string

// Property implements PropertySource.
func (p Properties) Property(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}
