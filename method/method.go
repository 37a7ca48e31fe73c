package method

import (
	"crypto/sha512"
	"fmt"
	"strings"
)

// Method is the parsed descriptor of an ABI method: its name, ordered formal
// arguments, and return slot. Signature and Selector are computed lazily and
// cached on first access, mirroring the original implementation's memoized
// accessors (see SPEC_FULL.md).
type Method struct {
	Name string
	Args []Arg
	Ret  Return

	signature string
	hasSig    bool
	selector  [4]byte
	hasSel    bool
}

// ParseMethod parses a canonical method signature "name(t1,t2,...)rettype"
// per spec.md section 4.C: locate the first '(', scan forward tracking paren
// depth, split arguments on top-level commas, and treat everything after the
// matching ')' as the return type. Every argument type and the return type
// are validated eagerly (the original's from_signature / VerifyMethodSignature
// strictness — see SPEC_FULL.md supplemented features).
func ParseMethod(sig string) (*Method, error) {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return nil, fmt.Errorf("method: signature %q has no argument list", sig)
	}
	name := sig[:open]
	if name == "" {
		return nil, fmt.Errorf("method: signature %q has an empty method name", sig)
	}

	depth := 0
	closeIdx := -1
	for i := open; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("method: signature %q has unbalanced parentheses", sig)
			}
			if depth == 0 {
				closeIdx = i
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 || depth != 0 {
		return nil, fmt.Errorf("method: signature %q has unbalanced parentheses", sig)
	}

	argList := sig[open+1 : closeIdx]
	returnType := sig[closeIdx+1:]
	if returnType == "" {
		return nil, fmt.Errorf("method: signature %q is missing a return type", sig)
	}

	argStrings, err := splitTopLevel(argList)
	if err != nil {
		return nil, fmt.Errorf("method: signature %q: %w", sig, err)
	}

	args := make([]Arg, len(argStrings))
	for i, s := range argStrings {
		a, err := newArg("", "", s)
		if err != nil {
			return nil, fmt.Errorf("method: signature %q, argument %d: %w", sig, i, err)
		}
		args[i] = a
	}

	ret, err := newReturn("", returnType)
	if err != nil {
		return nil, fmt.Errorf("method: signature %q: %w", sig, err)
	}

	return &Method{Name: name, Args: args, Ret: ret}, nil
}

// splitTopLevel splits a method's argument-list content at top-level commas,
// honoring nested tuple/array parens and brackets. An empty string yields no
// arguments.
func splitTopLevel(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets in argument list %q", s)
			}
		case ',':
			if depth == 0 {
				if i == start {
					return nil, fmt.Errorf("empty argument in %q", s)
				}
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in argument list %q", s)
	}
	if start == len(s) {
		return nil, fmt.Errorf("trailing comma in argument list %q", s)
	}
	out = append(out, s[start:])
	return out, nil
}

// Signature renders the canonical "name(t1,t2,...)rettype" form, computing
// and caching it on first call.
func (m *Method) Signature() string {
	if m.hasSig {
		return m.signature
	}
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.TypeString
	}
	m.signature = fmt.Sprintf("%s(%s)%s", m.Name, strings.Join(parts, ","), m.Ret.TypeString)
	m.hasSig = true
	return m.signature
}

// Selector returns the 4-byte method selector: the first 4 bytes of
// SHA-512/256 over the UTF-8 bytes of the canonical signature.
func (m *Method) Selector() [4]byte {
	if m.hasSel {
		return m.selector
	}
	sum := sha512.Sum512_256([]byte(m.Signature()))
	copy(m.selector[:], sum[:4])
	m.hasSel = true
	return m.selector
}

// TxCount is 1 (for the method's own application call) plus the number of
// arguments classified as transactions, per spec.md section 4.C.
func (m *Method) TxCount() int {
	count := 1
	for _, a := range m.Args {
		if a.IsTransactionArg() {
			count++
		}
	}
	return count
}
