package analysis

// polarityLexicon 是内置的职场评论情感词典，词 -> 极性权重，取值范围 [-1, 1]。
// 词条偏向雇主评价场景（管理、薪酬、加班、晋升等）。
var polarityLexicon = map[string]float64{
	// 正向
	"amazing": 0.9, "awesome": 0.85, "excellent": 0.9, "fantastic": 0.9,
	"great": 0.8, "wonderful": 0.85, "best": 0.8, "perfect": 0.9,
	"outstanding": 0.9, "good": 0.5, "nice": 0.5, "decent": 0.3,
	"solid": 0.4, "fair": 0.3, "strong": 0.4, "positive": 0.5,
	"love": 0.8, "loved": 0.8, "like": 0.3, "enjoy": 0.6, "enjoyed": 0.6,
	"enjoyable": 0.6, "happy": 0.6, "fun": 0.6, "friendly": 0.6,
	"helpful": 0.6, "supportive": 0.7, "caring": 0.6, "respectful": 0.6,
	"respected": 0.6, "respect": 0.5, "flexible": 0.6, "flexibility": 0.6,
	"generous": 0.7, "competitive": 0.4, "rewarding": 0.7, "exciting": 0.6,
	"interesting": 0.5, "smart": 0.5, "talented": 0.6, "brilliant": 0.7,
	"innovative": 0.5, "collaborative": 0.6, "professional": 0.4,
	"efficient": 0.4, "organized": 0.4, "stable": 0.4, "secure": 0.4,
	"growth": 0.5, "opportunity": 0.5, "opportunities": 0.5, "learn": 0.4,
	"learning": 0.4, "mentorship": 0.5, "training": 0.3, "promotion": 0.4,
	"promotions": 0.4, "promote": 0.4, "promoted": 0.4, "raise": 0.3,
	"bonus": 0.5, "bonuses": 0.5, "perks": 0.5, "benefit": 0.3,
	"benefits": 0.3, "balance": 0.3, "autonomy": 0.5, "freedom": 0.5,
	"trust": 0.5, "honest": 0.5, "transparent": 0.5, "transparency": 0.5,
	"inclusive": 0.6, "diverse": 0.4, "welcoming": 0.6, "recognition": 0.5,
	"recognized": 0.5, "empowering": 0.7, "empowered": 0.6, "passionate": 0.6,
	"motivated": 0.5, "motivating": 0.5, "improve": 0.3, "improved": 0.4,
	"improving": 0.3, "thrive": 0.6, "thriving": 0.6, "easy": 0.3,
	"free": 0.3, "modern": 0.3, "clean": 0.3, "safe": 0.4,

	// 负向
	"awful": -0.85, "terrible": -0.9, "horrible": -0.9, "worst": -0.9,
	"bad": -0.5, "poor": -0.6, "worse": -0.6, "hate": -0.8, "hated": -0.8,
	"toxic": -0.9, "hostile": -0.8, "abusive": -0.9, "bully": -0.8,
	"bullying": -0.8, "harassment": -0.9, "discrimination": -0.9,
	"nepotism": -0.8, "favoritism": -0.7, "politics": -0.5,
	"political": -0.4, "unfair": -0.7, "unprofessional": -0.7,
	"dishonest": -0.8, "lying": -0.7, "lies": -0.7, "rude": -0.7,
	"incompetent": -0.8, "mismanaged": -0.7, "mismanagement": -0.7,
	"micromanage": -0.7, "micromanaged": -0.7, "micromanagement": -0.7,
	"disorganized": -0.6, "unorganized": -0.6, "chaotic": -0.6,
	"chaos": -0.6, "broken": -0.5, "outdated": -0.4, "slow": -0.3,
	"stress": -0.6, "stressful": -0.7, "pressure": -0.4, "burnout": -0.8,
	"exhausting": -0.6, "exhausted": -0.6, "overworked": -0.7,
	"overwork": -0.7, "overtime": -0.3, "underpaid": -0.8, "unpaid": -0.7,
	"low": -0.4, "cheap": -0.4, "stingy": -0.6, "greedy": -0.7,
	"cutthroat": -0.7, "layoff": -0.7, "layoffs": -0.7, "fired": -0.6,
	"firing": -0.6, "turnover": -0.5, "quit": -0.4, "leaving": -0.3,
	"boring": -0.5, "tedious": -0.4, "repetitive": -0.3, "stuck": -0.4,
	"stagnant": -0.5, "limited": -0.3, "lack": -0.5, "lacking": -0.5,
	"lacks": -0.5, "missing": -0.3, "unstable": -0.5, "insecure": -0.4,
	"fear": -0.5, "afraid": -0.5, "threatened": -0.6, "disrespect": -0.7,
	"disrespected": -0.7, "disrespectful": -0.7, "ignored": -0.5,
	"unheard": -0.5, "blame": -0.5, "blamed": -0.5, "problem": -0.4,
	"problems": -0.4, "issue": -0.3, "issues": -0.3, "complaint": -0.4,
	"complaints": -0.4, "negative": -0.5, "difficult": -0.4, "hard": -0.2,
	"long": -0.2, "failure": -0.6, "fail": -0.5, "failing": -0.6,
	"useless": -0.7, "worthless": -0.8, "waste": -0.6, "wasted": -0.6,
	"sinking": -0.6, "dying": -0.5, "disappointing": -0.6,
	"disappointed": -0.6, "frustrating": -0.6, "frustrated": -0.6,
	"miserable": -0.8, "depressing": -0.7, "sad": -0.4, "angry": -0.6,
}

// negationTerms 是否定词集合。否定词出现在情感词前的窗口内时，翻转并削弱其极性。
// 归一化会剥掉撇号，所以这里是 dont 而非 don't。
var negationTerms = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "nobody": {},
	"none": {}, "neither": {}, "nor": {}, "cannot": {}, "cant": {},
	"dont": {}, "doesnt": {}, "didnt": {}, "isnt": {}, "wasnt": {},
	"arent": {}, "werent": {}, "wont": {}, "wouldnt": {}, "couldnt": {},
	"shouldnt": {}, "without": {}, "hardly": {}, "barely": {},
}
