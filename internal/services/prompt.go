package services

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/courseforge/backend/internal/logger"
)

const defaultCoursePrompt = `You are an expert course author. Write a complete online course.

Category: {{.Category}}
Subcategory: {{.SubCategory}}
Level: {{.Level}}
Title: {{.Title}}
{{if .Tags}}Related topics: {{.Tags}}{{end}}

Return ONLY a JSON object with this exact shape:
{"title": string, "description": string, "lessons": [{"title": string, "order": number, "content": string, "estimatedReadingTime": number}]}

Write 4 to 8 lessons. Lesson content is plain text with paragraphs separated by blank lines. estimatedReadingTime is in minutes.`

const defaultTitlesPrompt = `Suggest 5 compelling online course titles.

Category: {{.Category}}
Subcategory: {{.SubCategory}}
Level: {{.Level}}

Return ONLY a JSON array of strings.`

type promptTemplates struct {
	Course string `yaml:"course"`
	Titles string `yaml:"titles"`
}

type CoursePromptData struct {
	Category    string
	SubCategory string
	Level       string
	Title       string
	Tags        string
}

type TitlePromptData struct {
	Category    string
	SubCategory string
	Level       string
}

// PromptService renders the generation prompts. Templates can be overridden
// through a yaml file so prompt tuning does not require a rebuild.
type PromptService interface {
	CoursePrompt(data CoursePromptData) (string, error)
	TitleSuggestionsPrompt(data TitlePromptData) (string, error)
}

type promptService struct {
	log    *logger.Logger
	course *template.Template
	titles *template.Template
}

func NewPromptService(baseLog *logger.Logger) (PromptService, error) {
	log := baseLog.With("service", "PromptService")

	tpls := promptTemplates{Course: defaultCoursePrompt, Titles: defaultTitlesPrompt}
	path := os.Getenv("PROMPTS_FILE")
	if path == "" {
		path = "configs/prompts.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		var loaded promptTemplates
		if uErr := yaml.Unmarshal(raw, &loaded); uErr != nil {
			return nil, fmt.Errorf("parse prompts file %s: %w", path, uErr)
		}
		if strings.TrimSpace(loaded.Course) != "" {
			tpls.Course = loaded.Course
		}
		if strings.TrimSpace(loaded.Titles) != "" {
			tpls.Titles = loaded.Titles
		}
		log.Info("Loaded prompt templates", "path", path)
	} else {
		log.Debug("Prompts file not readable, using built-in templates", "path", path, "error", err)
	}

	courseTpl, err := template.New("course").Parse(tpls.Course)
	if err != nil {
		return nil, fmt.Errorf("parse course prompt template: %w", err)
	}
	titlesTpl, err := template.New("titles").Parse(tpls.Titles)
	if err != nil {
		return nil, fmt.Errorf("parse titles prompt template: %w", err)
	}

	return &promptService{log: log, course: courseTpl, titles: titlesTpl}, nil
}

func (ps *promptService) CoursePrompt(data CoursePromptData) (string, error) {
	var b strings.Builder
	if err := ps.course.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render course prompt: %w", err)
	}
	return b.String(), nil
}

func (ps *promptService) TitleSuggestionsPrompt(data TitlePromptData) (string, error) {
	var b strings.Builder
	if err := ps.titles.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render titles prompt: %w", err)
	}
	return b.String(), nil
}
