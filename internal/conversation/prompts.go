package conversation

import "strings"

// Prompts holds the bot's reply texts for one language. Placeholders
// {language}, {topic} and {topics} are substituted at render time.
type Prompts struct {
	Welcome     string
	LanguageSet string
	TopicAdded  string
	TopicExists string
	SearchReady string
	NeedTopic   string
	AskTopic    string
}

// DefaultPrompts returns the built-in reply texts for English, Hindi
// and Marathi. Deployments override them through configuration.
func DefaultPrompts() map[string]Prompts {
	return map[string]Prompts{
		"en": {
			Welcome:     "Hello! I'm your news assistant. What language would you prefer for news summaries? (English/Hindi/Marathi) or just say 'English' to continue.",
			LanguageSet: "Great! I'll provide news summaries in {language}. What topic would you like to search for news about?",
			TopicAdded:  "Added '{topic}' to your search topics. Do you want to search about anything else? (Enter another topic or say 'no' to search)",
			TopicExists: "You've already added '{topic}'. Do you want to search about anything else? (Enter another topic or say 'no' to search)",
			SearchReady: "Great! I'll search for news on these topics: {topics}. Please wait while I gather the latest news...",
			NeedTopic:   "Please enter at least one topic to search for news.",
			AskTopic:    "Please enter a topic you'd like to search for news about.",
		},
		"hi": {
			Welcome:     "नमस्ते! मैं आपका समाचार सहायक हूं। आप समाचार सारांश किस भाषा में पसंद करेंगे? (English/Hindi/Marathi) या बस 'Hindi' कहें।",
			LanguageSet: "बहुत बढ़िया! मैं {language} में समाचार सारांश प्रदान करूंगा। आप किस विषय पर समाचार खोजना चाहते हैं?",
			TopicAdded:  "'{topic}' को आपके खोज विषयों में जोड़ दिया गया। क्या आप कुछ और खोजना चाहते हैं? (कोई और विषय दर्ज करें या खोजने के लिए 'no' कहें)",
			TopicExists: "आपने पहले से ही '{topic}' जोड़ा है। क्या आप कुछ और खोजना चाहते हैं? (कोई और विषय दर्ज करें या खोजने के लिए 'no' कहें)",
			SearchReady: "बहुत बढ़िया! मैं इन विषयों पर समाचार खोजूंगा: {topics}। कृपया प्रतीक्षा करें जब तक मैं नवीनतम समाचार एकत्र करता हूं...",
			NeedTopic:   "कृपया समाचार खोजने के लिए कम से कम एक विषय दर्ज करें।",
			AskTopic:    "कृपया एक विषय दर्ज करें जिसके बारे में आप समाचार खोजना चाहते हैं।",
		},
		"mr": {
			Welcome:     "नमस्कार! मी तुमचा बातमी सहाय्यक आहे। तुम्ही बातम्यांचा सारांश कोणत्या भाषेत पसंत कराल? (English/Hindi/Marathi) किंवा फक्त 'Marathi' म्हणा।",
			LanguageSet: "उत्तम! मी {language} मध्ये बातम्यांचा सारांश देईन। तुम्ही कोणत्या विषयावर बातम्या शोधू इच्छिता?",
			TopicAdded:  "'{topic}' तुमच्या शोध विषयांमध्ये जोडले गेले. तुम्ही आणखी काही शोधू इच्छिता? (दुसरा विषय टाका किंवा शोधण्यासाठी 'no' म्हणा)",
			TopicExists: "तुम्ही आधीच '{topic}' जोडले आहे. तुम्ही आणखी काही शोधू इच्छिता? (दुसरा विषय टाका किंवा शोधण्यासाठी 'no' म्हणा)",
			SearchReady: "उत्तम! मी या विषयांवर बातम्या शोधेन: {topics}. कृपया प्रतीक्षा करा जेव्हा मी नवीनतम बातम्या गोळा करतो...",
			NeedTopic:   "कृपया बातम्या शोधण्यासाठी किमान एक विषय टाका.",
			AskTopic:    "कृपया एक विषय टाका ज्याबद्दल तुम्ही बातम्या शोधू इच्छिता.",
		},
	}
}

func render(template string, pairs ...string) string {
	replacements := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		replacements = append(replacements, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(replacements...).Replace(template)
}
