package pilot_json

import (
	"net/url"
	"strings"
)

// ParseForm decodes name=value pairs separated by '&'. Names and values are
// percent-unescaped and '+' becomes a space. Pairs without '=' are kept with
// an empty value; a later duplicate replaces an earlier one.
func ParseForm(encoded string) map[string]string {
	res := make(map[string]string)
	for _, pair := range strings.Split(encoded, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		res[key] = value
	}
	return res
}

// FormValue returns the first value for name in an encoded form.
func FormValue(encoded string, name string) (string, bool) {
	for _, pair := range strings.Split(encoded, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key != name {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return rawValue, true
		}
		return value, true
	}
	return "", false
}
