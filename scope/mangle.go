package scope

import "strings"

// Mangle computes a function or affix's mangled name per §4.5:
//
//	mangled := [namespace '::']* [impl_type '.'] unmangled '$' paramTypeSig
//	paramTypeSig := typeCode(param1) '_' typeCode(param2) ...
func Mangle(namespace, implType, unmangled string, params []*TypeDesc) string {
	var b strings.Builder
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteString("::")
	}
	if implType != "" {
		b.WriteString(implType)
		b.WriteByte('.')
	}
	b.WriteString(unmangled)
	b.WriteByte('$')

	for i, p := range params {
		if i > 0 {
			b.WriteByte('_')
		}
		b.WriteString(typeCode(p))
	}

	return b.String()
}

// ParamSig is a convenience wrapper turning a Dec parameter list into the
// TypeDesc slice Mangle expects.
func ParamSig(paramTypes ...*TypeDesc) []*TypeDesc { return paramTypes }
