package pipeline

import (
	"fmt"
	"io"
	"strings"

	"vision-batch/internal/vision"
)

// printLabelTable writes the per-image results table: a Label column padded to
// 20 characters and a Confidence column padded to 15, confidences with two
// decimal places.
func printLabelTable(w io.Writer, imageName string, labels []vision.Label) {
	fmt.Fprintf(w, "\nDetected labels for '%s':\n", imageName)
	fmt.Fprintf(w, "%-20s %-15s\n", "Label", "Confidence (%)")
	fmt.Fprintln(w, strings.Repeat("-", 35))
	for _, label := range labels {
		fmt.Fprintf(w, "%-20s %-15.2f\n", label.Name, label.Confidence)
	}
}
