package terminal

import "fmt"

const (
	// WorkingDirectory is what pwd reports
	WorkingDirectory = "/Users/developer/Portfolio"
	SystemLine       = "System: macOS Portfolio v1.0.0 | Kernel: Next.js 14.0.0"
	Prompt           = "user@macOS:~$"
)

// Banner is the welcome entry shown when a session starts
func Banner() Entry {
	return Entry{Output: []Line{
		heading("Welcome to macOS Portfolio! Type help to see available commands."),
		muted(SystemLine),
	}}
}

var aboutText = []Line{
	heading("About Me"),
	plain("Hi there! I'm a passionate developer with expertise in web technologies."),
	plain("I specialize in building modern web applications using React, Next.js, and other cutting-edge technologies."),
	plain("With a strong foundation in both frontend and backend development, I create seamless user experiences and robust applications."),
}

var projectsText = []Line{
	heading("My Projects"),
	accent("E-Commerce Platform"),
	muted("Next.js • Tailwind CSS • Prisma • PostgreSQL"),
	plain("A full-featured e-commerce solution with cart functionality, user authentication, and payment processing."),
	accent("Task Management App"),
	muted("React • Redux • Firebase"),
	plain("A collaborative task management application with real-time updates and team workspaces."),
	accent("Weather Dashboard"),
	muted("JavaScript • OpenWeather API • Chart.js"),
	plain("A weather visualization dashboard with forecast data and interactive charts."),
}

var skillsText = []Line{
	heading("Technical Skills"),
	accent("Languages"),
	plain("JavaScript, TypeScript, HTML, CSS, Python"),
	accent("Frameworks"),
	plain("React, Next.js, Express, Vue"),
	accent("Tools"),
	plain("Git, Docker, Webpack, Jest"),
	accent("Databases"),
	plain("MongoDB, PostgreSQL, Firebase"),
}

var contactText = []Line{
	heading("Contact Information"),
	link("Email: example@example.com"),
	link("GitHub: github.com/username"),
	link("LinkedIn: linkedin.com/in/username"),
	link("LeetCode: leetcode.com/username"),
}

var certificationsText = []Line{
	heading("My Certifications"),
	accent("AWS Certified Solutions Architect"),
	muted("Amazon Web Services • Issued May 2023"),
	plain("Validates expertise in designing and deploying scalable systems on AWS."),
	accent("Certified Kubernetes Administrator"),
	muted("Cloud Native Computing Foundation • Issued Feb 2023"),
	plain("Demonstrates skills in managing Kubernetes clusters and containerized applications."),
	accent("Microsoft Certified: Azure Developer Associate"),
	muted("Microsoft • Issued Nov 2022"),
	plain("Validates expertise in designing, building, and maintaining cloud applications on Azure."),
}

var lsText = []Line{
	accent("Documents/"),
	accent("Projects/"),
	accent("Photos/"),
	accent("Certifications/"),
	plain("resume.pdf"),
	plain("notes.txt"),
	plain("portfolio.js"),
}

func systemInfo(uptimeDays int) []string {
	return []string{
		"OS: macOS Portfolio v1.0.0",
		"Kernel: Next.js 14.0.0",
		fmt.Sprintf("Uptime: %d days", uptimeDays),
		"Shell: React.sh",
		"Resolution: Responsive x Adaptive",
		"DE: TailwindCSS",
		"WM: React Hooks",
		"Terminal: WebTerminal",
		"CPU: JavaScript V8 @ 60fps",
		"Memory: 256MB / 512MB",
	}
}
