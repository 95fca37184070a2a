package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"execlink/internal/match"
)

// ConsoleReviewer prompts a human operator on a terminal. Each cluster is
// presented in full (every member record, the company and title unions, and
// the aggregate confidence) before the yes/no/skip prompt.
type ConsoleReviewer struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsoleReviewer wraps the given streams. in is typically os.Stdin and
// out os.Stdout.
func NewConsoleReviewer(in io.Reader, out io.Writer) *ConsoleReviewer {
	return &ConsoleReviewer{in: bufio.NewScanner(in), out: out}
}

// Ask renders one cluster and blocks until the operator answers. Input
// outside yes/no/skip is re-prompted a few times and then treated as Skip.
// An input stream error or EOF aborts the session.
func (c *ConsoleReviewer) Ask(ctx context.Context, cluster *match.Cluster) (Decision, error) {
	c.render(cluster)

	prompt := "\nAre these the SAME person? (yes/no/skip): "
	if len(cluster.Companies) > 1 {
		prompt = "\nAre these ALL records for the SAME PERSON? (yes/no/skip): "
	}

	for attempts := 0; attempts < 3; attempts++ {
		if err := ctx.Err(); err != nil {
			return DecisionSkip, err
		}
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return DecisionSkip, fmt.Errorf("read reviewer input: %w", err)
			}
			return DecisionSkip, io.EOF
		}
		answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
		switch answer {
		case "yes", "y":
			fmt.Fprintln(c.out, "  [confirmed] records merged as one person")
			return DecisionConfirm, nil
		case "no", "n":
			fmt.Fprintln(c.out, "  [rejected] records kept as separate people")
			return DecisionReject, nil
		case "skip", "s":
			fmt.Fprintln(c.out, "  [skipped] cluster will be offered again later")
			return DecisionSkip, nil
		default:
			fmt.Fprintln(c.out, "  please answer 'yes', 'no', or 'skip'")
		}
	}
	return DecisionSkip, nil
}

func (c *ConsoleReviewer) render(cluster *match.Cluster) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("-", 72))
	fmt.Fprintf(c.out, "CLUSTER %d  confidence %.1f%%  records %d\n",
		cluster.ID, cluster.Confidence*100, cluster.Size())
	fmt.Fprintln(c.out, strings.Repeat("-", 72))

	if len(cluster.Companies) > 1 {
		fmt.Fprintln(c.out, "\n  This person appears at MULTIPLE companies:")
		for _, company := range cluster.Companies {
			fmt.Fprintf(c.out, "      - %s\n", company)
		}
		fmt.Fprintln(c.out, "\n  If confirmed, activity from this person will count")
		fmt.Fprintln(c.out, "  towards ALL companies they are associated with.")
	}

	for i, member := range cluster.Members {
		fmt.Fprintf(c.out, "\n  Record %d (id %s):\n", i+1, member.ID)
		fmt.Fprintf(c.out, "    Name:     %s\n", orNA(member.Name))
		fmt.Fprintf(c.out, "    Title:    %s\n", orNA(member.Title))
		fmt.Fprintf(c.out, "    Company:  %s\n", orNA(member.Company))
		fmt.Fprintf(c.out, "    Address:  %s\n", orNA(member.Address))
	}
}

func orNA(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "N/A"
	}
	return value
}
