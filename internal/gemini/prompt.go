package gemini

import (
	"fmt"
	"strings"

	"roomstyler/internal/design"
)

const analyzePrompt = `Analyze this studio apartment photo. Provide the following information as JSON:

{
    "room_type": "studio / one-bedroom / etc.",
    "size_estimate": "estimated floor area",
    "current_layout": "description of the current layout",
    "issues": ["issue 1", "issue 2"],
    "strengths": ["strength 1", "strength 2"]
}

Pay particular attention to:
- whether the bed blocks the entrance (circulation problems)
- window placement and natural light
- how well the space is used
- storage capacity
- how efficiently the furniture is arranged`

func guidePrompt(analysis *design.RoomAnalysis, styleName string) string {
	return fmt.Sprintf(`Write an interior design guide for this studio apartment.

Current analysis:
- room type: %s
- size: %s
- issues: %s
- strengths: %s

Desired style: %s

Answer as JSON in the following shape:
{
    "recommendations": ["recommendation 1", "recommendation 2"],
    "layout_suggestions": "detailed layout proposal",
    "color_scheme": "color palette proposal",
    "furniture_suggestions": ["furniture idea 1", "furniture idea 2"]
}

In particular:
1. arrange furniture with circulation in mind
2. make the space feel larger
3. optimize storage
4. suggest colors and accessories that fit the chosen style`,
		analysis.RoomType,
		analysis.SizeEstimate,
		strings.Join(analysis.Issues, ", "),
		strings.Join(analysis.Strengths, ", "),
		styleName,
	)
}

func imagePrompt(style design.Style) string {
	return fmt.Sprintf(`Generate an image of this studio apartment redesigned in the %s style.

Style description: %s

Requirements:
1. keep the room's structure (windows, doors, walls)
2. furniture arranged to suit the %s style
3. apply the %s color palette
4. add lighting and accessories that match the style
5. realistic, practical interior
6. maximize use of the space

Produce a high-quality, photorealistic interior rendering. Alongside the
image, briefly describe the design choices you made.`,
		style.Name, style.Description, style.Name, style.Name,
	)
}
