package domain

import "time"

const day = 24 * time.Hour

// DefaultUser возвращает профиль, с которым стартует новый браузерный профиль.
// Он же служит основой для наложения сохранённых данных.
func DefaultUser(now time.Time) User {
	return User{
		ID:                 "current-user-123",
		Name:               "Alex Builder",
		Points:             500,
		CompletedSurveyIDs: []string{},
		SurveysPostedIDs:   []string{"s5", "s6", "s11", "s12"},
		DailyCompletions:   DailyCompletions{Date: now.Format(DateLayout), Count: 0},
	}
}

// SeedSurveys возвращает демонстрационную коллекцию опросов относительно now.
func SeedSurveys(now time.Time) []Survey {
	at := func(offset time.Duration) time.Time { return now.Add(offset).UTC() }
	return []Survey{
		{
			ID:               "s1",
			Title:            "New Eco-Friendly Coffee Cup Design",
			Description:      "We are launching a new sustainable coffee cup. Help us choose the best color palette and ergonomic shape! Takes about 3 minutes.",
			Link:             "https://forms.google.com/example",
			CreatorName:      "Sarah G.",
			Theme:            ThemeProductLaunch,
			TargetResponses:  100,
			CurrentResponses: 45,
			PointsReward:     1,
			ClosingDate:      at(10 * day),
			CreatedAt:        at(-2 * day),
			EstimatedTime:    3,
			IsPromoted:       true,
			TargetCriteria:   "Coffee Drinkers",
			TargetLocation:   "Global",
			TargetAge:        "All",
			TargetLanguage:   "English",
			VerificationCode: "ECO25",
		},
		{
			ID:               "s2",
			Title:            "University Student Sleep Patterns",
			Description:      "Academic research for my Psychology thesis. Looking for current university students to share their sleep habits.",
			Link:             "https://typeform.com/example",
			CreatorName:      "Mike Ross",
			Theme:            ThemeAcademicResearch,
			TargetResponses:  50,
			CurrentResponses: 48,
			PointsReward:     1,
			ClosingDate:      at(5 * day),
			CreatedAt:        at(-5 * day),
			EstimatedTime:    5,
			TargetCriteria:   "University Students",
			TargetLocation:   "Global",
			TargetAge:        "18-25",
			TargetLanguage:   "English",
		},
		{
			ID:               "s3",
			Title:            "SaaS Dashboard Usability Test",
			Description:      "We need feedback on our new analytics dashboard layout. Please watch the short video and answer 5 questions.",
			Link:             "https://surveymonkey.com/example",
			CreatorName:      "TechFlow Inc.",
			Theme:            ThemeUserExperience,
			TargetResponses:  200,
			CurrentResponses: 12,
			PointsReward:     3,
			ClosingDate:      at(29 * day),
			CreatedAt:        at(-time.Hour),
			EstimatedTime:    10,
			TargetCriteria:   "Data Analysts / PMs",
			TargetLocation:   "US, UK, CA",
			TargetAge:        "25-45",
			TargetLanguage:   "English",
		},
		{
			ID:               "s4",
			Title:            "Vegan Cake Flavor Preferences",
			Description:      "I am a home baker testing out new vegan recipes. Which flavors sound most appealing to you?",
			Link:             "https://forms.google.com/example2",
			CreatorName:      "Baker Jess",
			Theme:            ThemeMarketResearch,
			TargetResponses:  30,
			CurrentResponses: 5,
			PointsReward:     1,
			ClosingDate:      at(15 * day),
			CreatedAt:        at(-2 * time.Hour),
			EstimatedTime:    2,
			TargetCriteria:   "Vegan / Dessert Lovers",
			TargetLocation:   "Taiwan",
			TargetAge:        "All",
			TargetLanguage:   "Mandarin/English",
		},
		{
			ID:               "s5",
			Title:            "Freelancer Tools Preference",
			Description:      "I am building a tool for freelancers to manage invoices. What is your biggest pain point?",
			Link:             "https://forms.google.com/example-freelance",
			CreatorName:      "Alex Builder",
			Theme:            ThemeMarketResearch,
			TargetResponses:  50,
			CurrentResponses: 12,
			PointsReward:     1,
			ClosingDate:      at(14 * day),
			CreatedAt:        at(-day),
			EstimatedTime:    2,
			TargetCriteria:   "Freelancers",
			TargetLocation:   "Global",
			TargetAge:        "20+",
			TargetLanguage:   "English",
		},
		{
			ID:               "s6",
			Title:            "Weekend Activity Preferences",
			Description:      "Quick poll for a community event I am organizing. Music vs Food?",
			Link:             "https://typeform.com/example-event",
			CreatorName:      "Alex Builder",
			Theme:            ThemeFunSocial,
			TargetResponses:  100,
			CurrentResponses: 88,
			PointsReward:     1,
			ClosingDate:      at(-day),
			CreatedAt:        at(-30 * day),
			EstimatedTime:    1,
			TargetCriteria:   "Locals",
			TargetLocation:   "Taipei",
			TargetAge:        "All",
			TargetLanguage:   "Mandarin",
		},
		{
			ID:               "s7",
			Title:            "台北捷運通勤滿意度調查",
			Description:      "我們是一群關注公共交通的大學生，希望能了解大家對於台北捷運尖峰時段的搭乘體驗與建議。填答時間約 3 分鐘。",
			Link:             "https://forms.google.com/mrt-survey",
			CreatorName:      "王小明",
			Theme:            ThemeAcademicResearch,
			TargetResponses:  100,
			CurrentResponses: 23,
			PointsReward:     1,
			ClosingDate:      at(14 * day),
			CreatedAt:        at(-day / 2),
			EstimatedTime:    3,
			IsPromoted:       true,
			TargetCriteria:   "捷運通勤族",
			TargetLocation:   "台北/新北",
			TargetAge:        "全部",
			TargetLanguage:   "中文",
			VerificationCode: "MRT888",
		},
		{
			ID:               "s8",
			Title:            "手搖飲消費習慣大調查",
			Description:      "想知道大家一週都喝幾杯手搖飲？對於甜度冰塊的偏好？填寫問卷有機會抽中飲料提袋！",
			Link:             "https://typeform.com/bubble-tea",
			CreatorName:      "珍奶愛好者",
			Theme:            ThemeFunSocial,
			TargetResponses:  200,
			CurrentResponses: 145,
			PointsReward:     1,
			ClosingDate:      at(7 * day),
			CreatedAt:        at(-36 * time.Hour),
			EstimatedTime:    2,
			TargetCriteria:   "愛喝飲料的人",
			TargetLocation:   "台灣",
			TargetAge:        "15-40歲",
			TargetLanguage:   "中文",
		},
		{
			ID:               "s9",
			Title:            "遠端工作效率與生活平衡",
			Description:      "針對目前正在進行混合辦公或全遠端工作的職場人士，探討工作與生活平衡的現況與挑戰。",
			Link:             "https://surveymonkey.com/remote-work-tw",
			CreatorName:      "HR Sarah",
			Theme:            ThemeMarketResearch,
			TargetResponses:  50,
			CurrentResponses: 12,
			PointsReward:     2,
			ClosingDate:      at(27 * day),
			CreatedAt:        at(-60 * time.Hour),
			EstimatedTime:    8,
			TargetCriteria:   "遠端工作者",
			TargetLocation:   "台灣",
			TargetAge:        "22-55歲",
			TargetLanguage:   "中文",
		},
		{
			ID:               "s10",
			Title:            "2025 大學生理財觀念調查",
			Description:      "調查現代大學生的理財工具使用情形（股票、ETF、加密貨幣、定存等），以及對未來的財務規劃。",
			Link:             "https://forms.google.com/finance-students",
			CreatorName:      "政大理財研究社",
			Theme:            ThemeEducation,
			TargetResponses:  80,
			CurrentResponses: 45,
			PointsReward:     1,
			ClosingDate:      at(20 * day),
			CreatedAt:        at(-4 * day),
			EstimatedTime:    5,
			TargetCriteria:   "在學大學生",
			TargetLocation:   "全台大專院校",
			TargetAge:        "18-24歲",
			TargetLanguage:   "中文",
		},
		{
			ID:               "s11",
			Title:            "Beta App Feedback (Expired)",
			Description:      "We finished our beta testing phase last week. Looking for final thoughts from users who participated.",
			Link:             "https://forms.google.com/beta-test",
			CreatorName:      "Alex Builder",
			Theme:            ThemeProductLaunch,
			TargetResponses:  50,
			CurrentResponses: 15,
			PointsReward:     1,
			ClosingDate:      at(-2 * day),
			CreatedAt:        at(-10 * day),
			EstimatedTime:    4,
			TargetCriteria:   "Beta Users",
			TargetLocation:   "Global",
			TargetAge:        "All",
			TargetLanguage:   "English",
		},
		{
			ID:               "s12",
			Title:            "2024 春季活動意見調查 (已過期 & 已延期過)",
			Description:      "感謝參與我們的春季活動，請填寫回饋以幫助我們改進未來的活動規劃。",
			Link:             "https://forms.google.com/spring-event",
			CreatorName:      "Alex Builder",
			Theme:            ThemeFunSocial,
			TargetResponses:  100,
			CurrentResponses: 88,
			PointsReward:     1,
			ClosingDate:      at(-day),
			CreatedAt:        at(-15 * day),
			EstimatedTime:    2,
			TargetCriteria:   "活動參與者",
			TargetLocation:   "台北",
			TargetAge:        "18-30歲",
			TargetLanguage:   "中文",
			ExtensionCount:   1,
		},
	}
}
