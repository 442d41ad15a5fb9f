// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blogpress/internal/models"
)

// seedFixture is the sample content both backends load into an empty store.
type seedFixture struct {
	Posts      []models.Post
	Comments   []models.Comment
	Users      []models.User
	Categories []string
	Settings   models.Settings
}

// seedData builds the built-in sample content: three quiz-blog posts (one
// of them scheduled), a couple of comments, the default categories and a
// single admin account. Ids are generated fresh per seeding.
func seedData(now time.Time) seedFixture {
	week := 7 * 24 * time.Hour
	pub1 := now.Add(-2 * week)
	pub2 := now.Add(-week)
	scheduled := now.Add(24 * time.Hour)

	featured := models.Post{
		ID:          uuid.New(),
		Title:       "De perfecte pubquiz samenstellen",
		Slug:        "de-perfecte-pubquiz-samenstellen",
		Excerpt:     "Van vragenrondes tot puntentelling: zo bouw je een quizavond die gasten terug laat komen.",
		Content:     "Een goede pubquiz begint bij de mix van rondes. Wissel algemene kennis af met muziek, beeldrondes en een lokale ronde over de buurt. Houd rondes kort, maximaal tien vragen, en tel de punten pas aan het eind van de avond op.",
		Author:      "Redactie",
		Category:    "Horeca",
		Tags:        []string{"pubquiz", "horeca", "tips"},
		Image:       "https://images.blogpress.local/pubquiz.jpg",
		ReadTime:    "4 min",
		Featured:    true,
		Status:      models.PostStatusPublished,
		PublishedAt: &pub1,
		CreatedAt:   pub1,
		UpdatedAt:   pub1,
	}

	sport := models.Post{
		ID:          uuid.New(),
		Title:       "Vijf lastige quizvragen over sport",
		Slug:        "vijf-lastige-quizvragen-over-sport",
		Excerpt:     "Vragen waar zelfs de sportfanaten aan je tafel over moeten nadenken.",
		Content:     "Wie won de eerste editie van de Elfstedentocht? Uit welk land komt de sport jeu de boules oorspronkelijk? Met deze vragen maak je de sportronde van je volgende quiz net wat scherper.",
		Author:      "Redactie",
		Category:    "Quizvragen",
		Tags:        []string{"quiz", "sport", "vragen"},
		ReadTime:    "3 min",
		Status:      models.PostStatusPublished,
		PublishedAt: &pub2,
		CreatedAt:   pub2,
		UpdatedAt:   pub2,
	}

	muziek := models.Post{
		ID:          uuid.New(),
		Title:       "Nieuwe quizronde: muziek van de jaren 90",
		Slug:        "nieuwe-quizronde-muziek-jaren-90",
		Excerpt:     "Een complete muziekronde, klaar om te draaien.",
		Content:     "Tien intro's, tien artiesten, één decennium. Deze ronde verschijnt binnenkort met afspeellijst en antwoordblad.",
		Author:      "Redactie",
		Category:    models.FallbackCategory,
		Tags:        []string{"quiz", "muziek"},
		ReadTime:    "2 min",
		Status:      models.PostStatusDraft,
		ScheduledAt: &scheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	approved := models.Comment{
		ID:          uuid.New(),
		PostID:      featured.ID,
		AuthorName:  "Sanne",
		AuthorEmail: "sanne@example.com",
		Content:     "De lokale ronde was bij ons meteen een hit, bedankt voor de tips!",
		Approved:    true,
		CreatedAt:   now.Add(-week),
	}
	pending := models.Comment{
		ID:          uuid.New(),
		PostID:      featured.ID,
		AuthorName:  "Joris",
		AuthorEmail: "joris@example.com",
		Content:     "Hoeveel rondes raden jullie aan voor een avond van drie uur?",
		Approved:    false,
		CreatedAt:   now.Add(-2 * 24 * time.Hour),
	}
	featured.CommentCount = 2

	return seedFixture{
		Posts:      []models.Post{featured, sport, muziek},
		Comments:   []models.Comment{approved, pending},
		Users:      []models.User{seedAdmin(now)},
		Categories: []string{models.FallbackCategory, "Horeca", "Quizvragen"},
		Settings: models.Settings{
			models.SettingPublishAnnouncement: "Elke vrijdag een nieuwe quizronde!",
		},
	}
}

// seedAdmin builds the default admin account. The password is meant for
// development only; production deployments replace it on first login.
func seedAdmin(now time.Time) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on an invalid cost, which is a programming error.
		panic(err)
	}
	slog.Info("seeding default admin user", "email", "admin@blogpress.local")
	return models.User{
		ID:           uuid.New(),
		Email:        "admin@blogpress.local",
		PasswordHash: string(hash),
		DisplayName:  "Admin",
		Role:         models.RoleAdmin,
		CreatedAt:    now,
	}
}
