package commands

import "strings"

// Control sentinels returned instead of display text.
const (
	ClearScreen         = "CLEAR_SCREEN"
	SnakeGameStart      = "SNAKE_GAME_START"
	PythonCompilerStart = "PYTHON_COMPILER_START"
	ToggleTheme         = "TOGGLE_THEME"
	ExitSession         = "EXIT_SESSION"
	ScrapePrefix        = "SCRAPE_URL:"
)

// IsSentinel reports whether out is a control value rather than text.
func IsSentinel(out string) bool {
	switch out {
	case ClearScreen, SnakeGameStart, PythonCompilerStart, ToggleTheme, ExitSession:
		return true
	}
	return strings.HasPrefix(out, ScrapePrefix)
}

// ScrapeTarget extracts the URL from a SCRAPE_URL sentinel.
func ScrapeTarget(out string) (string, bool) {
	return strings.CutPrefix(out, ScrapePrefix)
}

const HelpText = `Available Commands:

📋 Portfolio Commands:
  about        - Learn about me and my background
  skills       - View my technical skills and expertise
  projects     - Explore my featured projects
  experience   - View my work experience
  education    - See my educational background
  certifications - View my certifications
  resume       - View my resume
  contact      - Get my contact information

🤖 AI & Interactive Commands:
  chat         - Start AI conversation (Groq AI powered)
  ask <msg>    - Ask me anything via AI
  snake        - Play snake game
  python       - Python code compiler
  scrape <url> - Web scraper tool

🛠️ System Commands:
  clear        - Clear the terminal screen
  theme        - Toggle light/dark theme
  help         - Show this help message
  exit         - Refresh the session

💡 Tips:
  - Use ↑/↓ arrow keys to navigate command history
  - Press Tab to complete a command name
  - Try "ask me about my data analysis experience"
  - Use "contact linkedin" for direct social media access`

const ChatText = `AI Chat Mode
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

🤖 AI Assistant activated!

You can now ask me anything about:
• My experience and skills
• Technical questions
• Project details
• Career advice
• Or just have a casual chat!

Usage:
  ask <your question>

Example:
  ask what programming languages do you prefer?
  ask tell me about your most challenging project
  ask what's your experience with React?

💡 The AI has context about my portfolio and experience!`

const ScrapeUsage = `Web Scraping Tool

Usage: scrape <url>

Examples:
  scrape https://jsonplaceholder.typicode.com/posts
  scrape https://api.github.com/users/octocat

Features:
• Extract data from websites and APIs
• Parse JSON responses automatically
• Export to CSV format with instant download
• AI-powered data cleaning and preprocessing
• Handle both HTML and JSON data sources

Download Options:
• Automatically downloads CSV file after scraping
• File named with current date: scraped_data_YYYY-MM-DD.csv
• Up to 100 records per scrape (performance optimized)

Try: "scrape https://jsonplaceholder.typicode.com/posts"
For AI data processing: "ask clean this scraped data"`

const AskUsage = `Ask Command Usage

Usage: ask <your question>

Examples:
  ask what technologies do you specialize in?
  ask tell me about your background
  ask what's your favorite project?
  ask how did you get into data analysis?

I'll use AI to give you personalized responses!`

const Goodbye = `Goodbye! 👋
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

Thanks for exploring my terminal portfolio!

🔄 Refreshing session in 2 seconds...
💡 Press Ctrl+C to leave for good!`

const ScrapeInvalidURL = `Invalid URL format. Please provide a complete URL starting with http:// or https://

Example: scrape https://jsonplaceholder.typicode.com/posts`

// ScrapeStarted is shown while a scrape runs in the background.
func ScrapeStarted(url string) string {
	return `🔄 Starting web scraping process...

Target URL: ` + url + `
Status: Fetching data...
Processing: Extracting and converting to CSV format

📥 Download will start automatically when complete
⏱️ This may take a few moments depending on the data size
📊 Results will be limited to first 100 records for performance`
}

const AskFailed = "AI Error: Unable to process your question right now. Please try again later."

const AskUnavailable = `AI Chat not available. The AI integration is currently being set up.

In the meantime, try these commands:
• about - Learn about my background
• skills - View my technical skills
• projects - Explore my work
• contact - Get in touch directly`

const EmptyInput = "Please enter a command. Type 'help' for available commands."

// NotFound suggests routing the whole input to ask.
func NotFound(name, input string) string {
	return `Command not found: "` + name + `"

Did you mean to ask me something? Try:
   ask ` + input + `

Or type 'help' to see all available commands.

The AI can answer questions about my experience,
skills, projects, and much more!`
}
