package render

import (
	"strings"

	"github.com/johndoe31415/lazywireguard/internal/rules"
)

// RuleScript renders the compiled filter statements as an executable bash
// script of iptables commands. Statements are emitted in compilation order;
// consecutive statements originating from the same rule are grouped under a
// comment line carrying the rule text.
func RuleScript(stmts []rules.Statement) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")

	prevRule := ""
	for _, st := range stmts {
		rule := strings.TrimPrefix(st.Comment, rules.EstablishedTag)
		if rule != prevRule {
			if prevRule != "" {
				b.WriteString("\n")
			}
			b.WriteString("# " + rule + "\n")
			prevRule = rule
		}
		b.WriteString(Cmdline(iptablesArgs(st)))
		b.WriteString("\n")
	}
	return b.String()
}

// iptablesArgs builds the iptables argv for one statement. The argument
// order follows the emitted scripts of earlier releases so diffs against
// re-runs stay quiet.
func iptablesArgs(st rules.Statement) []string {
	args := []string{"iptables", "-A", "FORWARD"}
	if st.EstablishedOnly {
		args = append(args, "-m", "state", "--state", "ESTABLISHED,RELATED")
	}
	args = append(args, "-i", st.Ifname, "-o", st.Ifname)
	if st.Source != nil {
		args = append(args, "-s", st.Source.String())
	}
	if st.Destination != nil {
		args = append(args, "-d", st.Destination.String())
	}
	args = append(args, "-j", "ACCEPT")
	args = append(args, "-m", "comment", "--comment", st.Comment)
	return args
}
