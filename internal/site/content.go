// Package site holds the marketing content for the TrioGuard product pages.
// The copy is static; serving it from the backend keeps every front end (web,
// docs, Discord embeds) on the same source of truth.
package site

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ChangelogRelease struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Changes []string `json:"changes"`
}

type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func Features() []Feature {
	return []Feature{
		{
			Title:       "Automated Moderation & Spam Protection",
			Description: "Powerful auto-moderation tools that prevent spam, filter inappropriate content, and keep your server clean without manual intervention.",
		},
		{
			Title:       "Welcome Messages & Role Assignment",
			Description: "Customize welcome messages and automatically assign roles to new members when they join your server.",
		},
		{
			Title:       "Warnings, Mutes & Bans",
			Description: "Comprehensive moderation tools to manage user behavior with customizable warning systems, temporary mutes, and ban management.",
		},
		{
			Title:       "Activity Logging",
			Description: "Detailed logs of all server activities and moderation actions for complete transparency and accountability.",
		},
		{
			Title:       "Custom Commands",
			Description: "Create and customize commands to fit your server's unique needs and improve user experience.",
		},
		{
			Title:       "Dashboard Management",
			Description: "Intuitive dashboard accessible via DM after installation to configure and manage all bot settings with ease.",
		},
	}
}

func FAQ() []FAQEntry {
	return []FAQEntry{
		{
			Question: "How do I add TrioGuard to my Discord server?",
			Answer:   "Click the 'Invite Bot' button at the top of this page. You'll be redirected to Discord's authorization page where you can select your server and grant the necessary permissions.",
		},
		{
			Question: "Is TrioGuard free to use?",
			Answer:   "Yes, TrioGuard's core features are completely free. We may offer premium features in the future, but the essential moderation and protection tools will always remain free.",
		},
		{
			Question: "What permissions does TrioGuard need?",
			Answer:   "TrioGuard requires permissions related to moderation actions, such as managing messages, kicking/banning members, and managing roles. These permissions are necessary for the bot to function properly.",
		},
		{
			Question: "How do I configure welcome messages?",
			Answer:   "After adding TrioGuard to your server, use the command '-welcome setup' in your chosen welcome channel. Follow the prompts to customize your welcome message and role assignments.",
		},
		{
			Question: "Can I customize the prefix for commands?",
			Answer:   "Yes, you can change the default prefix ('-') by using the command '-prefix [new prefix]'. For example, '-prefix !' would change your prefix to '!'.",
		},
		{
			Question: "How do I contact support if I need help?",
			Answer:   "Join our support Discord server by clicking the 'Support' button in the navigation menu. Our team and community are there to help with any questions or issues.",
		},
	}
}

func Changelog() []ChangelogRelease {
	return []ChangelogRelease{
		{
			Version: "1.3.0",
			Date:    "May 10, 2025",
			Changes: []string{
				"Added advanced anti-raid protection system",
				"Improved welcome message customization options",
				"Added support for custom reaction roles",
				"Fixed issue with logging system in large servers",
			},
		},
		{
			Version: "1.2.0",
			Date:    "April 5, 2025",
			Changes: []string{
				"Enhanced auto-moderation filters",
				"Added temporary mute feature",
				"Improved dashboard interface and usability",
				"Fixed bug with role assignment for new members",
			},
		},
		{
			Version: "1.1.0",
			Date:    "March 2, 2025",
			Changes: []string{
				"Introduced custom command creation system",
				"Added advanced logging options",
				"Improved performance for larger servers",
				"Updated Discord API integration",
			},
		},
		{
			Version: "1.0.0",
			Date:    "February 1, 2025",
			Changes: []string{
				"Initial release of TrioGuard",
				"Basic moderation features implemented",
				"Welcome messages and role assignment",
				"Simple command system",
			},
		},
	}
}

func HowItWorks() []Step {
	return []Step{
		{
			Title:       "Invite the bot",
			Description: "Add TrioGuard to your server with the invite link and grant the requested permissions.",
		},
		{
			Title:       "Configure via dashboard",
			Description: "Log in with Discord, pick your server, and tune moderation, welcome messages, and logging.",
		},
		{
			Title:       "Let it run",
			Description: "TrioGuard moderates around the clock and logs every action it takes.",
		},
	}
}
