package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"baristasim/internal/classify"
	"baristasim/internal/respond"
)

func classifyText(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	result := classify.Classify(text)

	tags := make([]string, 0, len(result.Issues))
	for _, tag := range result.Issues {
		tags = append(tags, string(tag))
	}

	fmt.Printf("text:      %q\n", text)
	fmt.Printf("issues:    %s\n", strings.Join(tags, ", "))
	fmt.Printf("emotion:   %s\n", result.Emotion)
	fmt.Printf("urgency:   %s\n", result.Urgency)
	fmt.Printf("timeframe: %v\n", result.TimeFrameMentioned)
	fmt.Printf("ending:    %v\n", result.ConversationEnding)

	opts := respond.Generate(result, "")
	fmt.Printf("\ngood reply: %s\n", opts.Good)
	fmt.Printf("bad reply:  %s\n", opts.Bad)
	return nil
}
