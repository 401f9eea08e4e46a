package database

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seed inserts the baseline rows the app expects: the supported
// certifications, the SAA exam domains and one config row per LLM role.
// Idempotent.
func Seed(db *gorm.DB) error {
	certs := []model.Certification{
		{Code: "SAA-C03", Name: "AWS Certified Solutions Architect - Associate", Level: "Associate"},
		{Code: "SAP-C02", Name: "AWS Certified Solutions Architect - Professional", Level: "Professional"},
		{Code: "DVA-C02", Name: "AWS Certified Developer - Associate", Level: "Associate"},
	}
	for i := range certs {
		if err := db.Where(model.Certification{Code: certs[i].Code}).FirstOrCreate(&certs[i]).Error; err != nil {
			return err
		}
	}
	cert := certs[0]

	domains := []model.Category{
		{Name: "Design Secure Architectures", Description: "IAM, encryption, access control, compliance", Color: "#DD344C"},
		{Name: "Design Resilient Architectures", Description: "High availability, fault tolerance, disaster recovery", Color: "#FF9900"},
		{Name: "Design High-Performing Architectures", Description: "Caching, scaling, performance optimization", Color: "#527FFF"},
		{Name: "Design Cost-Optimized Architectures", Description: "Right-sizing, pricing models, storage tiers", Color: "#7AA116"},
	}
	for _, d := range domains {
		d.CertificationID = cert.ID
		if err := db.Where(model.Category{CertificationID: cert.ID, Name: d.Name}).
			FirstOrCreate(&d).Error; err != nil {
			return err
		}
	}

	configs := []model.LLMConfig{
		{Role: model.LLMRoleExtractor, Provider: "gemini", Model: "gemini-1.5-flash", MaxTokens: 8192, Temperature: 0.2},
		{Role: model.LLMRoleDiagram, Provider: "gemini", Model: "gemini-1.5-flash", MaxTokens: 4096, Temperature: 0.4},
		{Role: model.LLMRoleMentor, Provider: "gemini", Model: "gemini-1.5-pro", MaxTokens: 4096, Temperature: 0.7},
	}
	for _, c := range configs {
		if err := db.Where(model.LLMConfig{Role: c.Role}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}

	log.Info().Msg("Database seed completed")
	return nil
}
