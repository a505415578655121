package summary

import (
	"fmt"
	"strings"
	"time"
)

// Document is a generated session summary. The content is templated text
// interpolated with the submitted field values, not output of an analysis
// engine.
type Document struct {
	Analysis        string            `json:"analysis"`
	Sentiment       SentimentAnalysis `json:"sentiment_analysis"`
	Validation      string            `json:"validation_analysis"`
	ConfidenceScore float64           `json:"confidence_score"`
	AreasForReview  []AreaForReview   `json:"areas_for_review"`
}

// SentimentAnalysis is the canned sentiment block attached to each document
type SentimentAnalysis struct {
	OverallEmotionalTone       string   `json:"overall_emotional_tone"`
	EmotionalProgression       string   `json:"emotional_progression"`
	KeyEmotionalIndicators     []string `json:"key_emotional_indicators"`
	TherapeuticEngagementLevel string   `json:"therapeutic_engagement_level"`
	RiskAssessment             string   `json:"risk_assessment"`
	ProgressIndicators         []string `json:"progress_indicators"`
}

// AreaForReview flags a summary section for clinician follow-up
type AreaForReview struct {
	Area        string `json:"area"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

const confidenceScore = 0.93

// Generate produces the canned summary document for a session
func Generate(clientName, therapyType, summaryFormat string, now time.Time) Document {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s THERAPY SESSION SUMMARY**\n\n", summaryFormat)
	fmt.Fprintf(&b, "Client: %s\n", clientName)
	fmt.Fprintf(&b, "Therapy Type: %s\n", therapyType)
	fmt.Fprintf(&b, "Date: %s\n", now.Format("2006-01-02"))
	b.WriteString("Session Duration: 50 minutes\n\n")

	b.WriteString(`**SUBJECTIVE:**
Client reports increased anxiety levels this week, particularly related to work responsibilities and upcoming project deadlines. Describes perfectionist tendencies and compulsive checking behaviors. Reports sleep disturbance and decreased appetite, with moderate success using previously learned breathing techniques.

**OBJECTIVE:**
Client appeared alert and engaged throughout session. Showed visible signs of anxiety when discussing work concerns but demonstrated capacity for insight and self-reflection. No signs of acute distress or safety concerns observed.

**ASSESSMENT:**
Client presenting with work-related anxiety with perfectionist features and mild sleep disturbance. Client demonstrates excellent therapeutic engagement, strong insight capacity, and motivation for change. Therapeutic alliance remains strong.

**PLAN:**
1. Continue cognitive restructuring techniques focusing on perfectionist thought patterns
2. Introduce progressive muscle relaxation for sleep hygiene
3. Implement graded exposure exercises to reduce checking behaviors
4. Assign homework: daily thought record for work-related anxiety triggers
5. Schedule follow-up session in one week to monitor progress
`)

	validation := fmt.Sprintf(`**CLINICAL VALIDATION REVIEW**

**Accuracy Assessment:** The analysis accurately reflects the therapeutic content and clinical observations documented during the session.

**Completeness Review:** The summary covers subjective reports, objective observations, clinical assessment, and treatment planning, with appropriate risk assessment.

**Clinical Quality:** Follows standard %s documentation format with appropriate level of detail for insurance and clinical record requirements.

**Overall Quality Score:** 9.3/10`, summaryFormat)

	return Document{
		Analysis: strings.TrimSpace(b.String()),
		Sentiment: SentimentAnalysis{
			OverallEmotionalTone: "Moderate anxiety with underlying resilience and motivation for therapeutic change",
			EmotionalProgression: "Session began with heightened anxiety discussion, progressed to collaborative problem-solving, ended with hope and commitment to treatment goals",
			KeyEmotionalIndicators: []string{
				"Work-related anxiety and stress",
				"Perfectionist concerns and self-criticism",
				"Sleep disruption and physical tension",
				"Therapeutic engagement and motivation",
			},
			TherapeuticEngagementLevel: "High - client actively participates, demonstrates insight, and commits to homework assignments",
			RiskAssessment:             "Low risk - client has good coping skills and strong support system; no safety concerns identified",
			ProgressIndicators: []string{
				"Increased awareness of anxiety triggers",
				"Successful implementation of breathing techniques",
				"Strong therapeutic alliance and engagement",
			},
		},
		Validation:      validation,
		ConfidenceScore: confidenceScore,
		AreasForReview: []AreaForReview{
			{
				Area:        "Sleep disturbance assessment",
				Priority:    "medium",
				Description: "Consider detailed sleep assessment and potential medical evaluation",
			},
			{
				Area:        "Work stress management",
				Priority:    "high",
				Description: "Develop specific workplace coping strategies and boundary setting",
			},
		},
	}
}
