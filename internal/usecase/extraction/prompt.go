package extraction

import (
	"fmt"
	"strings"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

const systemPrompt = `You are an expert AI Action Tracker and Meeting Synthesizer.

Your primary task is to analyze the provided raw meeting transcript and extract all committed actions, critical decisions, and potential blockers.

You MUST only output a single, comprehensive JSON object of the form {"tasks": [...]} where each task has: id, description, owner, intent, confidence, due_date (nullable), dependencies (array of task ids). Do not include any preceding text, explanation, or markdown wrappers (like a json code fence).

CORE RULES FOR EXTRACTION:
1. Action Identification: An action must be a clear, committed task. Look for phrases like "I will," "We need to," "Can someone," and "Please ensure."
2. Owner Identification: The 'owner' must be the specific FULL NAME of the person who committed to the task. Use the complete name as it appears in the transcript (e.g., "John Smith" not just "John"). If multiple people share the same first name, use their full name or include context like their role (e.g., "John Smith (Engineering)"). If no specific name is mentioned but the context implies a team, use the team name. If no owner is identifiable, set 'owner' to "UNASSIGNED".
3. Intent and Confidence: For every task, categorize its 'intent' and assign a 'confidence' based on the clarity of the commitment in the transcript.
4. Dependency Identification: Identify task dependencies when one task explicitly depends on another being completed first. When a dependency is found, add the dependent task's ID to the 'dependencies' array. If no dependencies are mentioned, set 'dependencies' to an empty array.

DEFINITIONS:
Intent: ACTION is a clearly assigned task with a specified owner. DECISION is a formal agreement or choice made that impacts future work. BLOCKER is an explicitly mentioned risk or obstacle that prevents progress.
Confidence: HIGH when the task and owner were clearly stated. MEDIUM when the task is clear but the owner is implied or a general team. LOW when the statement is ambiguous, conditional, or the owner is entirely inferred.`

// BuildPrompt assembles the extraction prompt: the system instructions, the
// known user directory for owner disambiguation, and the transcript itself.
func BuildPrompt(transcript string, directory []entities.User) string {
	var roster []string
	for i := range directory {
		if directory[i].Name == "" {
			continue
		}
		roster = append(roster, fmt.Sprintf("%s (%s) - %s", directory[i].Name, directory[i].Role, directory[i].Email))
	}
	rosterBlock := "None"
	if len(roster) > 0 {
		rosterBlock = strings.Join(roster, "\n")
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nIMPORTANT - Available Users:\n")
	b.WriteString("The following users exist in the system. When assigning owners, use the FULL NAME exactly as shown:\n")
	b.WriteString(rosterBlock)
	b.WriteString("\n\nCRITICAL: If multiple people share the same first name, you MUST use their full name or include their role/email for disambiguation. Use the exact name format shown above. If no match is found, set owner to \"UNASSIGNED\".\n")
	b.WriteString("\nRaw Meeting Transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nAnalyze the transcript above and output ONLY a valid JSON object. Do not include any markdown formatting, explanations, or text outside the JSON object.\n")
	return b.String()
}
