package criteria

import (
	"github.com/procdoc/procdoc/service/dao"
)

// FilterByKind reports whether a document of the given kind matches the
// supplied list parameters.  An empty parameter list matches everything.
func FilterByKind(kind string, parameters []*dao.Parameter) bool {
	switch len(parameters) {
	case 0:
		return true
	case 1:
		if parameters[0].Name == "Kind" {
			switch actual := parameters[0].Value.(type) {
			case string:
				return kind == actual
			case []string:
				for _, k := range actual {
					if kind == k {
						return true
					}
				}
				return false
			}
		}
	}
	return true
}
