package publisher

import (
	"context"
	"fmt"
	"strings"
)

// StdoutPublisher prints the brief to stdout.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) Publish(_ context.Context, brief *Brief) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("AI Daily Brief — %s\n", brief.Date.Format("Monday, January 2, 2006"))
	fmt.Printf("%d stories curated from %d posts across %d sources\n",
		len(brief.Stories), brief.PostCount, brief.SourceCount)
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()

	for i, story := range brief.Stories {
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("%d. [%s] [%s] %s\n", i+1, story.Importance, story.Category, story.Headline)
		fmt.Println()
		fmt.Printf("   %s\n", story.Summary)
		if len(story.Sources) > 0 {
			fmt.Println()
			fmt.Println("   Sources:")
			for _, src := range story.Sources {
				fmt.Printf("   - @%s (%s)\n", src.Handle, src.URL)
			}
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 72))
	return nil
}
