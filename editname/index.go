package editname

import (
	"fmt"
	"strings"
)

// ExpandIndex replaces every "%ld" in expr, or a width form such as "%03ld",
// with n.  "%%" yields a single percent sign so "%%ld" is a literal "%ld".
func ExpandIndex(expr string, n int) string {
	if !strings.Contains(expr, "%") {
		return expr
	}
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(expr) && expr[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		j := i + 1
		for j < len(expr) && (expr[j] == '-' || expr[j] == '0' || (expr[j] >= '1' && expr[j] <= '9')) {
			j++
		}
		if strings.HasPrefix(expr[j:], "ld") {
			b.WriteString(fmt.Sprintf("%"+expr[i+1:j]+"d", n))
			i = j + 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
