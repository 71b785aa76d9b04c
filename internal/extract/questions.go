package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/format"
	"sephora-scraper/internal/models"
)

// Questions extracts the product Q&A. Tier one reads the JSON-LD Q&A list
// when present; tier two scans the DOM for question blocks. The generic
// section fallback is a best-effort heuristic keyed on the word
// "question" in the block's visible text and may produce false positives
// on markup changes. max caps the DOM scan; zero means no cap.
func Questions(doc *goquery.Document, product map[string]interface{}, productID string, max int) []models.Question {
	questions := questionsFromJSON(product)
	if len(questions) > 0 {
		if max > 0 && len(questions) > max {
			questions = questions[:max]
		}
		return questions
	}
	return questionsFromDOM(doc, productID, max)
}

func questionsFromJSON(product map[string]interface{}) []models.Question {
	if product == nil {
		return nil
	}

	entries := product["questions"]
	if entries == nil {
		entries = product["qa"]
	}
	list, ok := entries.([]interface{})
	if !ok {
		return nil
	}

	var questions []models.Question
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		text := stringValue(entry["question"])
		if text == "" {
			text = stringValue(entry["text"])
		}

		asked := stringValue(entry["dateCreated"])
		if asked == "" {
			asked = stringValue(entry["createdAt"])
		}

		var answers []models.Answer
		for _, a := range asList(entry["answers"]) {
			answerText := stringValue(a["answer"])
			if answerText == "" {
				answerText = stringValue(a["text"])
			}
			answeredAt := stringValue(a["createdAt"])
			if answeredAt == "" {
				answeredAt = stringValue(a["dateCreated"])
			}
			answers = append(answers, models.Answer{
				Answer:      format.CleanText(answerText),
				SubmittedAt: normalizeOrRaw(answeredAt),
				Author:      format.CleanText(nestedName(a["author"])),
			})
		}

		id := stringValue(entry["product_id"])
		if id == "" {
			id = stringValue(entry["productID"])
		}

		questions = append(questions, models.Question{
			ProductID:   id,
			Question:    format.CleanText(text),
			SubmittedAt: normalizeOrRaw(asked),
			Answers:     answers,
		})
	}

	return questions
}

func questionsFromDOM(doc *goquery.Document, productID string, max int) []models.Question {
	blocks := doc.Find(`[data-comp*="Question"]:not(script)`)
	if blocks.Length() == 0 {
		blocks = doc.Find("section")
	}

	var questions []models.Question
	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if block.Find(`[data-at="question_body"]`).Length() == 0 &&
			!strings.Contains(strings.ToLower(block.Text()), "question") {
			return true
		}

		q := parseQuestionBlock(block, productID)
		if q.Question != "" {
			questions = append(questions, q)
		}

		return max <= 0 || len(questions) < max
	})

	return questions
}

func parseQuestionBlock(block *goquery.Selection, productID string) models.Question {
	q := models.Question{ProductID: productID}

	questionEl := block.Find(`[data-at="question_body"]`).First()
	if questionEl.Length() == 0 {
		questionEl = block.Find("p").First()
	}
	q.Question = format.CleanText(questionEl.Text())

	if text, ok := markerText(block, "question_date"); ok {
		if normalized, found := format.NormalizeDate(format.CleanText(text)); found {
			q.SubmittedAt = normalized
		}
	}

	// Answers live inside a dedicated answers container when the page
	// renders one; otherwise any answer body within the block counts.
	answerBodies := block.Find(`[data-comp="Answers"] [data-at="answer_body"]`)
	if answerBodies.Length() == 0 {
		answerBodies = block.Find(`[data-at="answer_body"]`)
	}
	answerBodies.Each(func(_ int, body *goquery.Selection) {
		q.Answers = append(q.Answers, parseAnswer(body))
	})

	if text, ok := markerText(block, "question_helpful_count"); ok {
		q.HelpfulVoteCount = format.ParseInt(format.CleanText(text), 0)
	}
	if text, ok := markerText(block, "question_not_helpful_count"); ok {
		q.NotHelpfulVoteCount = format.ParseInt(format.CleanText(text), 0)
	}

	return q
}

func parseAnswer(body *goquery.Selection) models.Answer {
	answer := models.Answer{Answer: format.CleanText(body.Text())}

	container := body.Parent()
	if container.Length() == 0 {
		container = body
	}
	if text, ok := markerText(container, "answer_date"); ok {
		if normalized, found := format.NormalizeDate(format.CleanText(text)); found {
			answer.SubmittedAt = normalized
		}
	}
	if text, ok := markerText(container, "answer_author"); ok {
		answer.Author = format.CleanText(text)
	}

	return answer
}
