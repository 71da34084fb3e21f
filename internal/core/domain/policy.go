package domain

// Policy is a named bucket of configuration properties loaded from the
// policy table, e.g. subject "Authentication" or "Account".
type Policy struct {
	Subject    string
	Properties map[string]string
}

// Property returns the named property value or the empty string.
func (p Policy) Property(key string) string {
	if p.Properties == nil {
		return ""
	}
	return p.Properties[key]
}
