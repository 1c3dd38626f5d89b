package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

var patternCache sync.Map

func runValidators(validators map[string]any, value any) map[string]any {
	if len(validators) == 0 {
		return nil
	}
	var errs map[string]any
	fail := func(name string, param any) {
		if errs == nil {
			errs = make(map[string]any)
		}
		errs[name] = param
	}

	for name, param := range validators {
		switch name {
		case model.ValidatorRequired:
			if truthy(param) && isEmpty(value) {
				fail(name, true)
			}
		case model.ValidatorMinLength:
			limit, ok := toFloat(param)
			if !ok || isEmpty(value) {
				continue
			}
			if n, ok := lengthOf(value); ok && float64(n) < limit {
				fail(name, param)
			}
		case model.ValidatorMaxLength:
			limit, ok := toFloat(param)
			if !ok || isEmpty(value) {
				continue
			}
			if n, ok := lengthOf(value); ok && float64(n) > limit {
				fail(name, param)
			}
		case model.ValidatorMin:
			limit, ok := toFloat(param)
			if !ok || isEmpty(value) {
				continue
			}
			if n, ok := toFloat(value); ok && n < limit {
				fail(name, param)
			}
		case model.ValidatorMax:
			limit, ok := toFloat(param)
			if !ok || isEmpty(value) {
				continue
			}
			if n, ok := toFloat(value); ok && n > limit {
				fail(name, param)
			}
		case model.ValidatorPattern:
			expr, ok := param.(string)
			if !ok || expr == "" || isEmpty(value) {
				continue
			}
			re, err := compilePattern(expr)
			if err != nil {
				continue
			}
			str, ok := value.(string)
			if !ok {
				str = stringify(value)
			}
			if !re.MatchString(str) {
				fail(name, expr)
			}
		}
	}
	return errs
}

// compilePattern anchors string patterns the way reactive forms do.
func compilePattern(expr string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}

func truthy(param any) bool {
	switch v := param.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)
		return err != nil || parsed
	default:
		return true
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func lengthOf(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
