package prompt

import (
	"fmt"

	"github.com/nguyentantai21042004/tube2book/internal/chunker"
)

const strictReminder = `IMPORTANT: your previous answer could not be used. Reply with the summary only, ` +
	`using the section headings above as markdown "## " headings, in the same order. ` +
	`Do not reply with an empty message, code fences or commentary about the task.`

// framingFor returns the instructions appended for one part of a chunked
// transcript. A whole transcript gets none.
func framingFor(f Frame) string {
	part := fmt.Sprintf("part %d of %d", f.Index+1, f.Total)

	switch f.Role {
	case chunker.RoleFirst:
		return fmt.Sprintf("NOTE: the transcript above is %s of a longer video, the opening segment. "+
			"Write the Executive Overview and Introduction from what this segment establishes, "+
			"then cover this segment in the remaining sections. "+
			"Do NOT write a Conclusion or a Quick Bullet Summary (TL;DR); later parts continue the material.", part)
	case chunker.RoleMiddle:
		return fmt.Sprintf("NOTE: the transcript above is %s of a longer video, continuing from the previous section. "+
			"Do NOT write an Executive Overview, Introduction, Conclusion or Quick Bullet Summary (TL;DR). "+
			"Cover only this segment: its chapters, key concepts, takeaways, quotations, applications, critical analysis and further reading.", part)
	case chunker.RoleLast:
		return fmt.Sprintf("NOTE: the transcript above is %s of a longer video, the final segment, continuing from the previous section. "+
			"Do NOT write an Executive Overview or Introduction. "+
			"Cover this segment in the remaining sections and finish with the Conclusion and the Quick Bullet Summary (TL;DR) for the whole video.", part)
	default:
		return ""
	}
}
