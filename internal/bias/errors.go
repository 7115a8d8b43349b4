package bias

import "fmt"

// ConfigError reports a malformed or inconsistent scoring configuration
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Key, e.Reason)
}

// DictionaryError reports an invalid term dictionary
type DictionaryError struct {
	Term   string
	Reason string
}

func (e *DictionaryError) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("dictionary error: %s", e.Reason)
	}
	return fmt.Sprintf("dictionary error: term %q: %s", e.Term, e.Reason)
}

// InputError reports an impossible analysis input
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s: %s", e.Field, e.Reason)
}
