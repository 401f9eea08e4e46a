package service

import (
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// questionToDTO flattens a question with its category and tags into the
// response shape.
func questionToDTO(q *model.Question) dto.QuestionDTO {
	var out dto.QuestionDTO
	if err := copier.Copy(&out, q); err != nil {
		log.Error().Err(err).Uint("questionID", q.ID).Msg("Failed to copy question to DTO")
	}
	if q.Category != nil {
		out.CategoryName = q.Category.Name
		out.CategoryColor = q.Category.Color
	}
	out.Tags = make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		out.Tags = append(out.Tags, t.Name)
	}
	out.Answers = make([]dto.AnswerDTO, 0, len(q.Answers))
	for _, a := range q.Answers {
		var ad dto.AnswerDTO
		copier.Copy(&ad, &a)
		out.Answers = append(out.Answers, ad)
	}
	return out
}

func questionsToDTOs(questions []model.Question) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, 0, len(questions))
	for i := range questions {
		out = append(out, questionToDTO(&questions[i]))
	}
	return out
}

// truncateText shortens long question text for previews and breakdowns.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
