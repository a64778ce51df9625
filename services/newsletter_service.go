package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/z-haral/Halal-Checker/models"
	"github.com/z-haral/Halal-Checker/utils"

	"gorm.io/gorm"
)

// NewsletterService builds the weekly digest of freshly flagged high-risk
// products and mails it out.
type NewsletterService struct {
	db *gorm.DB
}

func NewNewsletterService(db *gorm.DB) *NewsletterService {
	return &NewsletterService{db: db}
}

// BuildWeeklyDigest composes the digest body from high-risk products
// updated in the last seven days.
func (s *NewsletterService) BuildWeeklyDigest(now time.Time) (string, int, error) {
	oneWeekAgo := now.AddDate(0, 0, -7)

	var products []models.Product
	err := s.db.
		Where("risk_level = ? AND updated_at >= ?", models.RiskHigh, oneWeekAgo).
		Order("updated_at desc").
		Find(&products).Error
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "HalalCheck Weekly Alert - %s\n", now.Format("January 2, 2006"))
	b.WriteString(strings.Repeat("=", 40) + "\n")

	if len(products) == 0 {
		b.WriteString("No new high-risk products were flagged this week.\n")
	} else {
		fmt.Fprintf(&b, "We detected %d new high-risk items this week. Please be cautious:\n\n", len(products))
		for _, p := range products {
			brand := p.Brand
			if brand == "" {
				brand = "Unknown Brand"
			}
			fmt.Fprintf(&b, "!! %s (%s)\n", p.Name, brand)
			fmt.Fprintf(&b, "   Risk Level: %s\n", strings.ToUpper(string(p.RiskLevel)))
			b.WriteString("   Reason: Found suspicious ingredients in list.\n\n")
		}
	}

	b.WriteString("\nStay safe and always check your labels.\nPowered by HalalCheck.")
	return b.String(), len(products), nil
}

// SendWeeklyDigest mails the digest to the given address.
func (s *NewsletterService) SendWeeklyDigest(to string) (int, error) {
	body, count, err := s.BuildWeeklyDigest(time.Now())
	if err != nil {
		return 0, err
	}
	subject := "HalalCheck Weekly Alert"
	if err := utils.SendDigestEmail(to, subject, body); err != nil {
		return count, err
	}
	return count, nil
}
