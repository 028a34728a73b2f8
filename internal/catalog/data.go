package catalog

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultDefinition())
	if err != nil {
		panic("catalog: built-in definition is invalid: " + err.Error())
	}
	return c
}

func defaultDefinition() Definition {
	return Definition{
		Domains: []Domain{
			{ID: "software-dev", Name: "Software Development", Icon: "code", Description: "Full-stack, Mobile, and Backend patterns"},
			{ID: "cloud", Name: "Cloud Computing", Icon: "cloud", Description: "AWS, Azure, GCP infrastructure"},
			{ID: "data-science", Name: "Data Science", Icon: "database", Description: "ETL, Big Data, and Analytics"},
			{ID: "security", Name: "Cyber Security", Icon: "shield", Description: "Pentesting, Auth, and Compliance"},
			{ID: "ai-ml", Name: "AI & Machine Learning", Icon: "cpu", Description: "NLP, Vision, and Robotics models"},
			{ID: "infra", Name: "Infrastructure & DevOps", Icon: "server", Description: "SysAdmin, CI/CD, and Containers"},
			{ID: "emerging-tech", Name: "Emerging Tech", Icon: "zap", Description: "Blockchain, IoT, and AR/VR"},
		},
		Stacks: []Stack{
			{
				ID: "mern", Name: "MERN Stack", Type: StackTypeStack,
				CoreLanguages:  []string{"JavaScript"},
				Components:     []string{"MongoDB Driver", "Express.js", "React.js", "Node.js Runtime", "Mongoose ODM"},
				Versions:       []string{"Node 20 / React 18", "Node 18 / React 17", "Legacy (Node 16)"},
				DefaultVersion: "Node 20 / React 18",
			},
			{
				ID: "mean", Name: "MEAN Stack", Type: StackTypeStack,
				CoreLanguages:  []string{"JavaScript"},
				Components:     []string{"MongoDB Driver", "Express.js", "Angular CLI", "Node.js Runtime"},
				Versions:       []string{"Angular 17 / Node 20", "Angular 16 / Node 18", "Angular 15 / Node 18"},
				DefaultVersion: "Angular 17 / Node 20",
			},
			{
				ID: "springboot", Name: "Spring Boot", Type: StackTypeStack,
				CoreLanguages:  []string{"Java"},
				Components:     []string{"Spring WebMVC", "Spring Data JPA", "Spring Security", "Spring Cloud Netflix", "Spring Boot Actuator"},
				Versions:       []string{"3.2.x (Java 21)", "3.1.x (Java 17)", "3.0.x (Java 17)", "2.7.x (Java 11)"},
				DefaultVersion: "3.2.x (Java 21)",
			},
			{
				ID: "dotnet", Name: ".NET Core", Type: StackTypeStack,
				CoreLanguages:  []string{"C#"},
				Components:     []string{"ASP.NET Core Web API", "Entity Framework Core", "Identity Server", "Blazor Server"},
				Versions:       []string{".NET 8 (LTS)", ".NET 7", ".NET 6 (LTS)", ".NET Framework 4.8"},
				DefaultVersion: ".NET 8 (LTS)",
			},
			{
				ID: "django", Name: "Django", Type: StackTypeStack,
				CoreLanguages:  []string{"Python"},
				Components:     []string{"Django REST Framework", "Django ORM", "Celery Task Queue", "Gunicorn"},
				Versions:       []string{"Django 5.0 (Py 3.12)", "Django 4.2 LTS", "Django 3.2 LTS"},
				DefaultVersion: "Django 5.0 (Py 3.12)",
			},
			{
				ID: "jamstack", Name: "JAMstack", Type: StackTypeStack,
				CoreLanguages:  []string{"TypeScript"},
				Components:     []string{"Next.js Framework", "Vercel Edge Functions", "Headless CMS", "Tailwind CSS"},
				Versions:       []string{"Next.js 14", "Next.js 13", "Gatsby 5"},
				DefaultVersion: "Next.js 14",
			},
			{
				ID: "flutter", Name: "Flutter", Type: StackTypeMobile,
				CoreLanguages:  []string{"Dart"},
				Components:     []string{"Flutter Material", "Flutter Cupertino", "Dart VM", "Bloc State Management"},
				Versions:       []string{"3.19.x (Dart 3.3)", "3.16.x", "3.13.x"},
				DefaultVersion: "3.19.x (Dart 3.3)",
			},
			{
				ID: "android", Name: "Android Native", Type: StackTypeMobile,
				CoreLanguages:  []string{"Kotlin"},
				Components:     []string{"Jetpack Compose", "Android SDK", "Retrofit", "Room Database"},
				Versions:       []string{"API 34 (Android 14)", "API 33 (Android 13)", "API 31 (Android 12)"},
				DefaultVersion: "API 34 (Android 14)",
			},
			{
				ID: "swift", Name: "iOS Native", Type: StackTypeMobile,
				CoreLanguages:  []string{"Swift"},
				Components:     []string{"SwiftUI", "UIKit", "Combine Framework", "CoreData"},
				Versions:       []string{"Swift 5.10 (iOS 17)", "Swift 5.9", "Swift 5.7"},
				DefaultVersion: "Swift 5.10 (iOS 17)",
			},
			{
				ID: "python_data", Name: "Python Data Stack", Type: StackTypeData,
				CoreLanguages:  []string{"Python"},
				Components:     []string{"Pandas", "NumPy", "Scikit-Learn", "PyTorch", "TensorFlow"},
				Versions:       []string{"Python 3.12", "Python 3.11", "Python 3.9"},
				DefaultVersion: "Python 3.12",
			},
			{
				ID: "sql", Name: "SQL Database", Type: StackTypeData,
				CoreLanguages:  []string{"SQL"},
				Components:     []string{"PostgreSQL Core", "MySQL Engine", "PL/pgSQL", "Stored Procedures"},
				Versions:       []string{"PostgreSQL 16", "MySQL 8.3", "Oracle 21c"},
				DefaultVersion: "PostgreSQL 16",
			},
			{
				ID: "java", Name: "Java SE", Type: StackTypeCore,
				CoreLanguages:  []string{"Java"},
				Components:     []string{"Java Development Kit (JDK)", "Java Runtime (JRE)", "Maven Build Tool", "Gradle Build Tool"},
				Versions:       []string{"Java 21 (LTS)", "Java 17 (LTS)", "Java 11 (LTS)"},
				DefaultVersion: "Java 21 (LTS)",
			},
			{
				ID: "python", Name: "Python Core", Type: StackTypeCore,
				CoreLanguages:  []string{"Python"},
				Components:     []string{"Python Interpreter", "Pip Package Manager", "Virtualenv", "AsyncIO"},
				Versions:       []string{"3.12", "3.11", "3.10"},
				DefaultVersion: "3.12",
			},
			{
				ID: "typescript", Name: "TypeScript", Type: StackTypeCore,
				CoreLanguages:  []string{"TypeScript"},
				Components:     []string{"TSC Compiler", "Type Definitions", "ESLint", "Prettier"},
				Versions:       []string{"5.3", "5.2", "5.0"},
				DefaultVersion: "5.3",
			},
			{
				ID: "go", Name: "Go (Golang)", Type: StackTypeCore,
				CoreLanguages:  []string{"Go"},
				Components:     []string{"Go Runtime", "Gin Web Framework", "Echo Framework", "Goroutines"},
				Versions:       []string{"1.22", "1.21", "1.20"},
				DefaultVersion: "1.22",
			},
			{
				ID: "terraform", Name: "Terraform", Type: StackTypeInfra,
				CoreLanguages:  []string{"HCL"},
				Components:     []string{"AWS Provider", "Azure Provider", "GCP Provider", "Terraform CLI"},
				Versions:       []string{"1.7", "1.5+", "1.0"},
				DefaultVersion: "1.7",
			},
			{
				ID: "bash", Name: "Shell Scripting", Type: StackTypeInfra,
				CoreLanguages:  []string{"Bash"},
				Components:     []string{"Bash Shell", "Zsh Shell", "Cron Job", "Systemd Unit"},
				Versions:       []string{"5.2", "4.4", "POSIX"},
				DefaultVersion: "5.2",
			},
			{
				ID: "solidity", Name: "Solidity", Type: StackTypeSpecialized,
				CoreLanguages:  []string{"Solidity"},
				Components:     []string{"Smart Contract", "OpenZeppelin Library", "Hardhat Environment", "Truffle Suite"},
				Versions:       []string{"0.8.24", "0.8.20", "0.7.x"},
				DefaultVersion: "0.8.24",
			},
			{
				ID: "yaml", Name: "YAML Config", Type: StackTypeInfra,
				CoreLanguages:  []string{"YAML"},
				Components:     []string{"Kubernetes Manifest", "Docker Compose", "Ansible Playbook", "GitHub Actions"},
				Versions:       []string{"1.2", "1.1"},
				DefaultVersion: "1.2",
			},
		},
		Services: map[string][]Service{
			"software-dev": {
				{Name: "DevOmniverse Complete Secure Platform", SuggestedStack: "springboot"},
				{Name: "DevOmniverse Backend API Service", SuggestedStack: "springboot"},
				{Name: "Service Discovery Server (Eureka)", SuggestedStack: "springboot"},
				{Name: "API Gateway Service", SuggestedStack: "springboot"},
				{Name: "Central Configuration Service", SuggestedStack: "springboot"},
				{Name: "Distributed Tracing Service", SuggestedStack: "springboot"},
				{Name: "User Authentication Service", SuggestedStack: "springboot"},
				{Name: "Identity Management Service", SuggestedStack: "springboot"},
				{Name: "Payment Processing Gateway", SuggestedStack: "springboot"},
				{Name: "Inventory Management Service", SuggestedStack: "springboot"},
				{Name: "Order Fulfillment Service", SuggestedStack: "springboot"},
				{Name: "Notification Dispatch Service", SuggestedStack: "springboot"},
				{Name: "Audit Logging Service", SuggestedStack: "springboot"},
				{Name: "Reporting & Analytics Service", SuggestedStack: "springboot"},
				{Name: "Customer Profile Service", SuggestedStack: "springboot"},
				{Name: "Product Catalog Service", SuggestedStack: "springboot"},
				{Name: "Search Engine Service", SuggestedStack: "springboot"},
				{Name: "Recommendation Engine", SuggestedStack: "python_data"},
				{Name: "Frontend Single Page Application", SuggestedStack: "mern"},
				{Name: "Mobile Application (iOS/Android)", SuggestedStack: "flutter"},
				{Name: "Admin Dashboard Portal", SuggestedStack: "jamstack"},
				{Name: "WebSocket Real-time Service", SuggestedStack: "springboot"},
				{Name: "Batch Processing Service", SuggestedStack: "springboot"},
			},
			"cloud": {
				{Name: "AWS Network Infrastructure (VPC)", SuggestedStack: "terraform"},
				{Name: "AWS Compute Cluster (EKS)", SuggestedStack: "terraform"},
				{Name: "AWS Serverless API (Lambda)", SuggestedStack: "typescript"},
				{Name: "AWS Storage Configuration (S3)", SuggestedStack: "terraform"},
				{Name: "Azure Active Directory Setup", SuggestedStack: "terraform"},
				{Name: "Azure Kubernetes Service (AKS)", SuggestedStack: "terraform"},
				{Name: "Azure Logic App Workflow", SuggestedStack: "yaml"},
				{Name: "GCP Cloud Run Service", SuggestedStack: "terraform"},
				{Name: "GCP Pub/Sub Messaging", SuggestedStack: "terraform"},
				{Name: "Container Registry Setup", SuggestedStack: "terraform"},
				{Name: "Load Balancer Configuration", SuggestedStack: "terraform"},
				{Name: "CDN Distribution Config", SuggestedStack: "terraform"},
			},
			"data-science": {
				{Name: "ETL Pipeline Orchestrator", SuggestedStack: "python_data"},
				{Name: "Data Warehouse Schema", SuggestedStack: "sql"},
				{Name: "Real-time Stream Processor", SuggestedStack: "java"},
				{Name: "Predictive Analytics Model", SuggestedStack: "python_data"},
				{Name: "Customer Churn Model", SuggestedStack: "python_data"},
				{Name: "Fraud Detection Engine", SuggestedStack: "python_data"},
				{Name: "Data Visualization Dashboard", SuggestedStack: "python_data"},
				{Name: "Big Data Batch Job", SuggestedStack: "python_data"},
			},
			"security": {
				{Name: "OAuth2 Authorization Server", SuggestedStack: "springboot"},
				{Name: "Key Management Service", SuggestedStack: "springboot"},
				{Name: "Web Application Firewall Rules", SuggestedStack: "bash"},
				{Name: "Intrusion Detection System", SuggestedStack: "python"},
				{Name: "Security Information Event Mgmt", SuggestedStack: "python"},
				{Name: "Penetration Testing Suite", SuggestedStack: "python"},
				{Name: "Vulnerability Scanner", SuggestedStack: "python"},
				{Name: "Zero Trust Network Policy", SuggestedStack: "terraform"},
			},
			"ai-ml": {
				{Name: "Large Language Model Chain", SuggestedStack: "python_data"},
				{Name: "Computer Vision Inference", SuggestedStack: "python_data"},
				{Name: "Natural Language Processor", SuggestedStack: "python_data"},
				{Name: "Chatbot Conversational Agent", SuggestedStack: "python_data"},
				{Name: "Speech-to-Text Transcriber", SuggestedStack: "python_data"},
				{Name: "Reinforcement Learning Agent", SuggestedStack: "python_data"},
			},
			"infra": {
				{Name: "CI/CD Pipeline Configuration", SuggestedStack: "yaml"},
				{Name: "Container Orchestration Manifest", SuggestedStack: "yaml"},
				{Name: "Infrastructure as Code State", SuggestedStack: "terraform"},
				{Name: "Reverse Proxy Configuration", SuggestedStack: "bash"},
				{Name: "System Monitoring Agent", SuggestedStack: "bash"},
				{Name: "Log Aggregation Service", SuggestedStack: "yaml"},
				{Name: "Backup & Recovery Script", SuggestedStack: "bash"},
			},
			"emerging-tech": {
				{Name: "Smart Contract (Token)", SuggestedStack: "solidity"},
				{Name: "Decentralized App Backend", SuggestedStack: "solidity"},
				{Name: "IoT Device Firmware", SuggestedStack: "python"},
				{Name: "IoT Telemetry Ingestor", SuggestedStack: "python"},
				{Name: "Blockchain Consensus Node", SuggestedStack: "go"},
			},
		},
	}
}
