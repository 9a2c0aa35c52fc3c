package portfolio

import (
	"fmt"
	"strings"
	"time"
)

// Rule is the horizontal divider used between sections.
var Rule = strings.Repeat("━", 46)

func bullets(items []string, sep string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "• " + it
	}
	return strings.Join(out, sep)
}

func stripIcon(s string) string {
	for _, icon := range []string{"📍 ", "📞 ", "✉️ "} {
		s = strings.Replace(s, icon, "", 1)
	}
	return s
}

func (p *Portfolio) AboutText() string {
	a := p.About
	return fmt.Sprintf(`About Me

%s
%s
%s
%s  %s

Professional Summary:
%s

Type 'skills' to see my technical expertise
Type 'projects' to explore my work
Type 'contact' to get in touch!`, a.Name, a.Role, a.Location, a.Phone, a.Email, a.Bio)
}

func (p *Portfolio) SkillsText() string {
	s := p.Skills
	var b strings.Builder
	b.WriteString("Technical Skills\n")
	for _, sec := range []struct {
		title string
		items []string
	}{
		{"Languages", s.Languages},
		{"Libraries", s.Libraries},
		{"Data Tools", s.DataTools},
		{"Databases", s.Databases},
		{"Frameworks", s.Frameworks},
		{"APIs", s.APIs},
		{"Concepts", s.Concepts},
		{"Version Control", s.Tools},
	} {
		fmt.Fprintf(&b, "\n%s:\n  %s\n", sec.title, bullets(sec.items, "\n  "))
	}
	b.WriteString("\nAsk me about any of these technologies!\n")
	b.WriteString(`Try: "ask tell me about your Python experience"`)
	return b.String()
}

func (p *Portfolio) ProjectsText() string {
	parts := make([]string, len(p.Projects))
	for i, pr := range p.Projects {
		sep := ""
		if i > 0 {
			sep = "\n" + Rule + "\n"
		}
		details := pr.Details
		if details == "" {
			details = "More details available on request"
		}
		parts[i] = fmt.Sprintf("%s\n%d. 📦 %s %s\n   %s\n   🔧 Tech Stack: %s\n   📝 Details: %s",
			sep, i+1, pr.Name, pr.Status, pr.Description, strings.Join(pr.Tech, ", "), details)
	}

	tail := ""
	if len(p.Projects) > 0 {
		tail = fmt.Sprintf("\n\nWant to know more about any project?\nTry: \"ask tell me more about the %s\"", p.Projects[0].Name)
	}
	return "Featured Projects\n" + Rule + "\n" + strings.Join(parts, "\n") + tail
}

func (p *Portfolio) ExperienceText() string {
	parts := make([]string, len(p.Experience))
	for i, e := range p.Experience {
		parts[i] = fmt.Sprintf("%s\n%s | %s\n\nKey Responsibilities:\n%s\n", e.Company, e.Position, e.Duration, e.Description)
	}
	return "Work Experience\n\n" + strings.Join(parts, "\n") + "\n\nFor more details, try: \"ask about my work experience\""
}

func (p *Portfolio) EducationText() string {
	parts := make([]string, len(p.Education))
	for i, e := range p.Education {
		parts[i] = fmt.Sprintf("%s\n%s | %s\nStatus: %s\n", e.Institution, e.Degree, e.Year, e.status())
	}
	return "Education\n\n" + strings.Join(parts, "\n") + "\n\nFor more academic details, try: \"ask about my education\""
}

func (e Education) status() string {
	if e.Status == "" {
		return "Completed"
	}
	return e.Status
}

func (p *Portfolio) CertificationsText() string {
	return "Certifications\n\n" + bullets(p.Certifications, "\n") +
		"\n\nThese certifications validate my expertise in data analytics and cloud technologies.\n" +
		`Try: "ask about my certification journey"`
}

func (p *Portfolio) ContactText() string {
	c := p.Contact
	return fmt.Sprintf(`Contact Information

📧 Email:     %s
📞 Phone:     %s
📍 Location:  %s
🐙 GitHub:    %s
💼 LinkedIn:  %s
📸 Instagram: %s

Feel free to reach out! I'm always interested in
discussing new opportunities, projects, or just
chatting about data analysis and technology.

Social Media Quick Access:
Type: "contact linkedin" or "contact github" or "contact insta"
Try: "ask what's the best way to contact you?"`, c.Email, c.Phone, c.Location, c.GitHub, c.LinkedIn, c.Instagram)
}

// ResumeText renders the plain-text resume stamped with now.
func (p *Portfolio) ResumeText(now time.Time) string {
	sep := strings.Repeat("=", 80)
	sub := strings.Repeat("-", 50)
	a, c, s := p.About, p.Contact, p.Skills

	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	line("%s", sep)
	line("%s%s", strings.Repeat(" ", 26), strings.ToUpper(a.Name))
	line("%s%s", strings.Repeat(" ", 25), a.Role)
	line("%s\n", sep)

	line("PERSONAL INFORMATION\n%s", sub)
	line("Name:         %s", a.Name)
	line("Role:         %s", a.Role)
	line("Location:     %s", stripIcon(a.Location))
	line("Phone:        %s", stripIcon(c.Phone))
	line("Email:        %s", stripIcon(c.Email))
	line("LinkedIn:     %s", c.LinkedIn)
	line("GitHub:       %s", c.GitHub)
	line("Instagram:    %s\n", c.Instagram)

	line("PROFESSIONAL SUMMARY\n%s", sub)
	line("%s\n", strings.TrimSpace(strings.ReplaceAll(a.Bio, "\n\n", "\n")))

	line("WORK EXPERIENCE\n%s", sub)
	for i, e := range p.Experience {
		line("%d. %s", i+1, strings.ToUpper(e.Company))
		line("   Position: %s", e.Position)
		line("   Duration: %s\n", e.Duration)
		line("   Key Responsibilities:")
		for _, task := range strings.Split(e.Description, ". ") {
			line("   • %s", strings.TrimSpace(task))
		}
		line("")
	}

	line("EDUCATION\n%s", sub)
	for i, e := range p.Education {
		line("%d. %s", i+1, strings.ToUpper(e.Institution))
		line("   Degree:   %s", e.Degree)
		line("   Year:     %s", e.Year)
		line("   Status:   %s\n", e.status())
	}

	line("TECHNICAL SKILLS & EXPERTISE\n%s", sub)
	for _, sec := range []struct {
		title string
		items []string
	}{
		{"Programming Languages", s.Languages},
		{"Libraries & Frameworks", append(append([]string{}, s.Libraries...), s.Frameworks...)},
		{"Data Analysis Tools", s.DataTools},
		{"Databases", s.Databases},
		{"APIs & Integration", s.APIs},
		{"Core Concepts", s.Concepts},
		{"Version Control & Tools", s.Tools},
	} {
		line("%s:\n  %s\n", sec.title, bullets(sec.items, "\n  "))
	}

	line("PROFESSIONAL CERTIFICATIONS\n%s", sub)
	for i, cert := range p.Certifications {
		line("%d. %s", i+1, cert)
	}
	line("")

	line("FEATURED PROJECTS\n%s", sub)
	for i, pr := range p.Projects {
		line("%d. %s %s\n", i+1, strings.ToUpper(pr.Name), pr.Status)
		line("   Project Overview:\n   %s\n", pr.Description)
		line("   Technologies Used:")
		for _, t := range pr.Tech {
			line("   • %s", t)
		}
		line("\n   Key Details:\n   %s\n", pr.Details)
	}

	line("CONTACT INFORMATION\n%s", sub)
	line("Email:        %s", c.Email)
	line("Phone:        %s", c.Phone)
	line("LinkedIn:     %s", c.LinkedIn)
	line("GitHub:       %s", c.GitHub)
	line("Instagram:    %s", c.Instagram)
	line("Location:     %s\n", c.Location)

	line("%s", sep)
	line("Generated on: %s", now.Format("January 2, 2006 at 03:04 PM"))
	b.WriteString(sep)
	return b.String()
}

// SystemPrompt is the persona handed to the chat relay.
func (p *Portfolio) SystemPrompt() string {
	a, s, c := p.About, p.Skills, p.Contact
	var b strings.Builder
	fmt.Fprintf(&b, "\nYou are an AI assistant representing %s's portfolio terminal. Here's context about %s:\n\n", a.Name, firstName(a.Name))

	b.WriteString("Profile:\n")
	fmt.Fprintf(&b, "- %s\n- Based in %s\n", a.Role, stripIcon(a.Location))
	for _, para := range strings.Split(a.Bio, "\n\n") {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(para))
	}

	b.WriteString("\nTechnical Skills:\n")
	fmt.Fprintf(&b, "Languages: %s\n", strings.Join(s.Languages, ", "))
	fmt.Fprintf(&b, "Libraries & Frameworks: %s\n", strings.Join(append(append([]string{}, s.Libraries...), s.Frameworks...), ", "))
	fmt.Fprintf(&b, "Data Tools: %s\n", strings.Join(s.DataTools, ", "))
	fmt.Fprintf(&b, "Databases: %s\n", strings.Join(s.Databases, ", "))
	fmt.Fprintf(&b, "APIs: %s\n", strings.Join(s.APIs, ", "))
	fmt.Fprintf(&b, "Concepts: %s\n", strings.Join(s.Concepts, ", "))

	b.WriteString("\nFeatured Projects:\n")
	for i, pr := range p.Projects {
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, pr.Name, pr.Description, strings.Join(pr.Tech, ", "))
	}

	b.WriteString("\nExperience:\n")
	for _, e := range p.Experience {
		fmt.Fprintf(&b, "- %s - %s (%s)\n", e.Company, e.Position, e.Duration)
	}

	b.WriteString("\nEducation:\n")
	for _, e := range p.Education {
		fmt.Fprintf(&b, "- %s, %s (%s)\n", e.Degree, e.Institution, e.status())
	}

	b.WriteString("\nContact:\n")
	fmt.Fprintf(&b, "- Email: %s\n- GitHub: %s\n- LinkedIn: %s\n- Instagram: %s\n", c.Email, c.GitHub, c.LinkedIn, c.Instagram)

	if len(p.Guidelines) > 0 {
		b.WriteString("\nResponse Guidelines:\n")
		for _, g := range p.Guidelines {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	return b.String()
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
