package catalog

import "fmt"

// Module 课程中的一个内容单元
// 一旦开始排期即视为不可变
type Module struct {
	Name          string  `json:"name"`
	Hours         float64 `json:"hours"`
	HasAssignment bool    `json:"has_assignment"`
	IsProject     bool    `json:"is_project,omitempty"`
}

// CourseTemplate 课程模板：排期引擎的输入
// TotalWeeks 允许小数（不足一周的速成请求）
type CourseTemplate struct {
	Name       string   `json:"name"`
	TotalWeeks float64  `json:"total_weeks"`
	TotalHours float64  `json:"total_hours"`
	Modules    []Module `json:"modules"`
}

// Clone 返回模板的深拷贝，调用方可安全修改
func (t CourseTemplate) Clone() CourseTemplate {
	out := t
	out.Modules = make([]Module, len(t.Modules))
	copy(out.Modules, t.Modules)
	return out
}

// Skill 课程覆盖的技能及目标等级
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Course 可检索的课程目录条目（面向课程搜索）
type Course struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Skills              []Skill `json:"skills"`
	Description         string  `json:"description"`
	RecommendedForRoles []string `json:"recommendedForRoles"`
	Difficulty          string  `json:"difficulty"`
	Duration            string  `json:"duration"`
	EstimatedHours      float64 `json:"estimatedHours"`
}

// courseTemplates 内置课程模板
var courseTemplates = map[string]CourseTemplate{
	"Advanced Python for Data Science": {
		Name:       "Advanced Python for Data Science",
		TotalWeeks: 8,
		TotalHours: 40,
		Modules: []Module{
			{Name: "Advanced Data Structures", Hours: 6, HasAssignment: true},
			{Name: "NumPy & Pandas Mastery", Hours: 8, HasAssignment: true},
			{Name: "Data Visualization", Hours: 6, HasAssignment: true},
			{Name: "Statistical Analysis", Hours: 8, HasAssignment: true},
			{Name: "Machine Learning Integration", Hours: 8, HasAssignment: true},
			{Name: "Final Project", Hours: 4, HasAssignment: true, IsProject: true},
		},
	},
	"Advanced Machine Learning": {
		Name:       "Advanced Machine Learning",
		TotalWeeks: 8,
		TotalHours: 40,
		Modules: []Module{
			{Name: "Ensemble Methods", Hours: 6, HasAssignment: true},
			{Name: "Feature Engineering", Hours: 6, HasAssignment: true},
			{Name: "Model Optimization", Hours: 8, HasAssignment: true},
			{Name: "Deep Learning Basics", Hours: 8, HasAssignment: true},
			{Name: "Neural Networks", Hours: 8, HasAssignment: true},
			{Name: "Capstone Project", Hours: 4, HasAssignment: true, IsProject: true},
		},
	},
	"Deep Learning with TensorFlow": {
		Name:       "Deep Learning with TensorFlow",
		TotalWeeks: 10,
		TotalHours: 50,
		Modules: []Module{
			{Name: "TensorFlow Fundamentals", Hours: 8, HasAssignment: true},
			{Name: "Neural Network Architecture", Hours: 8, HasAssignment: true},
			{Name: "CNN for Computer Vision", Hours: 8, HasAssignment: true},
			{Name: "RNN for Sequence Data", Hours: 8, HasAssignment: true},
			{Name: "Advanced Architectures", Hours: 8, HasAssignment: true},
			{Name: "Model Deployment", Hours: 6, HasAssignment: true},
			{Name: "Final Project", Hours: 4, HasAssignment: true, IsProject: true},
		},
	},
}

// TemplateFor 返回指定课程的模板副本
// 未知课程返回默认模板（6 周 / 30 小时 / 4 个通用单元 + 结业项目）
func TemplateFor(courseName string) CourseTemplate {
	if t, ok := courseTemplates[courseName]; ok {
		return t.Clone()
	}
	return defaultTemplate(courseName)
}

func defaultTemplate(courseName string) CourseTemplate {
	modules := make([]Module, 0, 5)
	for i := 1; i <= 4; i++ {
		modules = append(modules, Module{
			Name:          fmt.Sprintf("%s - Module %d", courseName, i),
			Hours:         6,
			HasAssignment: true,
		})
	}
	modules = append(modules, Module{
		Name:          fmt.Sprintf("%s - Final Project", courseName),
		Hours:         6,
		HasAssignment: true,
		IsProject:     true,
	})
	return CourseTemplate{
		Name:       courseName,
		TotalWeeks: 6,
		TotalHours: 30,
		Modules:    modules,
	}
}

// courses 可检索课程目录
var courses = []Course{
	{
		ID:    "course1",
		Title: "Advanced Python for Data Science",
		Skills: []Skill{{Name: "Python", Level: 3}},
		Description:         "Master advanced Python programming techniques specifically for data science applications.",
		RecommendedForRoles: []string{"Junior Data Scientist", "Data Analyst", "Data Science Team Lead"},
		Difficulty:          "Advanced",
		Duration:            "8 weeks",
		EstimatedHours:      40,
	},
	{
		ID:    "course2",
		Title: "Advanced Machine Learning",
		Skills: []Skill{{Name: "Machine Learning", Level: 3}},
		Description:         "Master advanced machine learning techniques including ensemble methods, feature engineering, and model optimization.",
		RecommendedForRoles: []string{"Data Science Team Lead"},
		Difficulty:          "Advanced",
		Duration:            "8 weeks",
		EstimatedHours:      40,
	},
	{
		ID:    "course3",
		Title: "Deep Learning with TensorFlow",
		Skills: []Skill{{Name: "Deep Learning", Level: 3}, {Name: "TensorFlow", Level: 2}},
		Description:         "Build and deploy deep learning models using TensorFlow framework.",
		RecommendedForRoles: []string{"Junior Data Scientist", "Data Science Team Lead"},
		Difficulty:          "Advanced",
		Duration:            "10 weeks",
		EstimatedHours:      50,
	},
	{
		ID:    "course4",
		Title: "SQL for Data Analysis",
		Skills: []Skill{{Name: "SQL", Level: 3}},
		Description:         "Master advanced SQL queries for complex data analysis and reporting.",
		RecommendedForRoles: []string{"Data Analyst", "Junior Data Scientist"},
		Difficulty:          "Intermediate",
		Duration:            "4 weeks",
		EstimatedHours:      20,
	},
	{
		ID:    "course5",
		Title: "Data Visualization with Tableau",
		Skills: []Skill{{Name: "Tableau", Level: 3}},
		Description:         "Create compelling data visualizations and interactive dashboards.",
		RecommendedForRoles: []string{"Data Analyst", "Junior Data Scientist"},
		Difficulty:          "Beginner",
		Duration:            "3 weeks",
		EstimatedHours:      15,
	},
	{
		ID:    "course6",
		Title: "Cloud Computing for Data Science",
		Skills: []Skill{{Name: "Cloud Computing", Level: 2}, {Name: "AWS", Level: 2}},
		Description:         "Deploy data science solutions on cloud platforms like AWS.",
		RecommendedForRoles: []string{"Data Science Team Lead", "Junior Data Scientist"},
		Difficulty:          "Intermediate",
		Duration:            "6 weeks",
		EstimatedHours:      35,
	},
	{
		ID:    "course7",
		Title: "MLOps and Model Deployment",
		Skills: []Skill{{Name: "MLOps", Level: 3}, {Name: "Docker", Level: 2}},
		Description:         "Learn to deploy and maintain machine learning models in production.",
		RecommendedForRoles: []string{"Data Science Team Lead", "Junior Data Scientist"},
		Difficulty:          "Advanced",
		Duration:            "8 weeks",
		EstimatedHours:      45,
	},
	{
		ID:    "course8",
		Title: "Statistical Analysis with R",
		Skills: []Skill{{Name: "R", Level: 3}, {Name: "Statistics", Level: 3}},
		Description:         "Perform advanced statistical analysis using R programming language.",
		RecommendedForRoles: []string{"Data Analyst", "Junior Data Scientist"},
		Difficulty:          "Beginner",
		Duration:            "5 weeks",
		EstimatedHours:      25,
	},
	{
		ID:    "course9",
		Title: "Introduction to Data Science",
		Skills: []Skill{{Name: "Python", Level: 1}, {Name: "Statistics", Level: 1}},
		Description:         "Get started with data science fundamentals and basic Python programming.",
		RecommendedForRoles: []string{"Data Analyst"},
		Difficulty:          "Beginner",
		Duration:            "2 weeks",
		EstimatedHours:      10,
	},
	{
		ID:    "course10",
		Title: "Advanced Data Engineering",
		Skills: []Skill{{Name: "Python", Level: 3}, {Name: "Apache Spark", Level: 3}, {Name: "SQL", Level: 3}},
		Description:         "Build scalable data pipelines and engineering solutions for big data.",
		RecommendedForRoles: []string{"Data Science Team Lead"},
		Difficulty:          "Advanced",
		Duration:            "12 weeks",
		EstimatedHours:      60,
	},
	{
		ID:    "course11",
		Title: "Business Intelligence with Power BI",
		Skills: []Skill{{Name: "Power BI", Level: 3}, {Name: "DAX", Level: 2}},
		Description:         "Create comprehensive business intelligence solutions using Microsoft Power BI.",
		RecommendedForRoles: []string{"Data Analyst"},
		Difficulty:          "Intermediate",
		Duration:            "4 weeks",
		EstimatedHours:      20,
	},
	{
		ID:    "course12",
		Title: "Machine Learning Operations (MLOps) Fundamentals",
		Skills: []Skill{{Name: "MLOps", Level: 2}, {Name: "Git", Level: 2}, {Name: "CI/CD", Level: 2}},
		Description:         "Learn the fundamentals of MLOps including version control, continuous integration, and model deployment.",
		RecommendedForRoles: []string{"Junior Data Scientist", "Data Science Team Lead"},
		Difficulty:          "Intermediate",
		Duration:            "6 weeks",
		EstimatedHours:      30,
	},
}

// Courses 返回全部课程目录条目（只读语义，调用方不应修改）
func Courses() []Course {
	return courses
}

// CourseByID 按标识符查找课程
func CourseByID(id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// SearchText 拼出用于相似度检索的课程描述文本
func (c Course) SearchText() string {
	skills := ""
	for i, s := range c.Skills {
		if i > 0 {
			skills += ", "
		}
		skills += s.Name
	}
	roles := ""
	for i, r := range c.RecommendedForRoles {
		if i > 0 {
			roles += ", "
		}
		roles += r
	}
	return fmt.Sprintf("Title: %s\nDescription: %s\nSkills: %s\nDifficulty: %s\nDuration: %s\nRecommended for: %s",
		c.Title, c.Description, skills, c.Difficulty, c.Duration, roles)
}
