package notification

import (
	"fmt"
	"time"

	"coursehub/models"
	"coursehub/utils"
)

func ResetCodeEmail(u *models.User, code string, ttl time.Duration) models.Email {
	text := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\nIf you did not ask for it, ignore this email.",
		u.Name, code, int(ttl.Minutes()))
	return models.Email{
		ToName:   u.Name,
		ToEmail:  u.Email,
		Subject:  "Your password reset code",
		Text:     text,
		HTML:     fmt.Sprintf("<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>. It expires in %d minutes.</p>", u.Name, code, int(ttl.Minutes())),
		Category: "password-reset",
	}
}

func ReceiptEmail(u *models.User, course *models.Course, p *models.Purchase) models.Email {
	amount := utils.FormatAmount(p.AmountCents, p.Currency)
	return models.Email{
		ToName:   u.Name,
		ToEmail:  u.Email,
		Subject:  "Your receipt for " + course.Title,
		Text:     fmt.Sprintf("Thanks for buying %s.\nAmount: %s\nOrder: %s", course.Title, amount, p.ID),
		HTML:     fmt.Sprintf("<p>Thanks for buying <strong>%s</strong>.</p><p>Amount: %s<br>Order: %s</p>", course.Title, amount, p.ID),
		Category: "receipt",
	}
}

func WelcomeEmail(lead *models.Lead) models.Email {
	name := lead.Name
	if name == "" {
		name = "there"
	}
	return models.Email{
		ToName:   lead.Name,
		ToEmail:  lead.Email,
		Subject:  "Welcome aboard",
		Text:     fmt.Sprintf("Hi %s,\n\nThanks for signing up. We will keep you posted on new courses and live sessions.", name),
		HTML:     fmt.Sprintf("<p>Hi %s,</p><p>Thanks for signing up. We will keep you posted on new courses and live sessions.</p>", name),
		Category: "welcome",
	}
}

func EventReminderEmail(u *models.User, e *models.Event) models.Email {
	when := e.StartsAt.UTC().Format("Mon 2 Jan 15:04 MST")
	where := e.Location
	if e.MeetingURL != "" {
		where = e.MeetingURL
	}
	return models.Email{
		ToName:   u.Name,
		ToEmail:  u.Email,
		Subject:  "Starting soon: " + e.Title,
		Text:     fmt.Sprintf("%s starts at %s.\n%s", e.Title, when, where),
		HTML:     fmt.Sprintf("<p><strong>%s</strong> starts at %s.</p><p>%s</p>", e.Title, when, where),
		Category: "event-reminder",
	}
}
