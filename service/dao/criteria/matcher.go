package criteria

import (
	"github.com/viant/cpusched/service/dao"
)

// Match reports whether value satisfies every parameter named name. Other
// parameters are ignored; no parameters always match.
func Match(name, value string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		matched := false
		for _, candidate := range parameter.Values() {
			if candidate == value {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
