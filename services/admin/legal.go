package admin

import (
	"time"

	"coursehub/models"
)

// legalUpdated is the publication date of the current policy set.
var legalUpdated = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

// GetLegalSections returns all legal documents.
func (a *DefaultAdminService) GetLegalSections() []models.LegalSection {
	return []models.LegalSection{
		{
			ID:      "tos",
			Title:   "Terms of Service",
			Summary: "These terms govern your use of CourseHub.",
			Content: generateTermsOfService(),
			Version: "v1.0",
			Updated: legalUpdated,
		},
		{
			ID:      "privacy",
			Title:   "Privacy Policy",
			Summary: "How CourseHub collects and uses personal data.",
			Content: generatePrivacyPolicy(),
			Version: "v1.0",
			Updated: legalUpdated,
		},
		{
			ID:      "conduct",
			Title:   "Community Guidelines",
			Summary: "Rules every member follows in the community feed and at events.",
			Content: generateCodeOfConduct(),
			Version: "v1.0",
			Updated: legalUpdated,
		},
		{
			ID:      "payments",
			Title:   "Payment & Refund Policy",
			Summary: "How course payments and refunds work.",
			Content: generatePaymentPolicy(),
			Version: "v1.0",
			Updated: legalUpdated,
		},
	}
}

func generateTermsOfService() string {
	return `Welcome to CourseHub. By creating an account or buying a course you agree to these Terms of Service.

1. Accounts: You are responsible for keeping your password private.
2. Licence: A purchase grants you personal, non-transferable access to the course.
3. Content: Course videos and files may not be redistributed.
4. Community: Posts, comments and shared files must follow the Community Guidelines.
5. Termination: Accounts that break these terms may be suspended.`
}

func generatePrivacyPolicy() string {
	return `CourseHub collects only the data needed to run the platform.

1. Data We Collect: Name, email, course progress and purchase history.
2. How We Use It: Access control, receipts, reminders and product updates you opt into.
3. Third Parties: Stripe (payments), SendGrid (email), Firebase (push notifications).
4. Rights: You can request export or deletion of your data at any time.`
}

func generateCodeOfConduct() string {
	return `All CourseHub members agree to:

- Be respectful to other learners and instructors.
- Avoid harassment, spam and self-promotion.
- Share only files you have the right to share.

Moderators may remove content and suspend accounts that break these rules.`
}

func generatePaymentPolicy() string {
	return `1. Payments are processed securely by Stripe; card details never reach our servers.
2. Access is granted as soon as the payment is confirmed.
3. Refunds can be requested within 14 days of purchase if less than a third of the course is completed.
4. Prices are shown in the course currency and include applicable taxes.`
}
