package llm

import "strings"

const defaultPromptTemplate = `Summarize the following news article in 2-3 sentences and classify its sentiment as positive, negative, or neutral.

Title: {title}

Article:
{text}

Respond in English using exactly this format:
Summary: <your summary>
Sentiment: <positive|negative|neutral>`

const hindiPromptTemplate = `निम्नलिखित समाचार लेख का 2-3 वाक्यों में सारांश दें और उसकी भावना को positive, negative या neutral के रूप में वर्गीकृत करें।

शीर्षक: {title}

लेख:
{text}

हिंदी में इस प्रारूप में उत्तर दें:
Summary: <सारांश>
Sentiment: <positive|negative|neutral>`

const marathiPromptTemplate = `खालील बातमीचा 2-3 वाक्यांत सारांश द्या आणि तिची भावना positive, negative किंवा neutral म्हणून वर्गीकृत करा.

शीर्षक: {title}

लेख:
{text}

मराठीत या स्वरूपात उत्तर द्या:
Summary: <सारांश>
Sentiment: <positive|negative|neutral>`

var defaultPrompts = map[string]string{
	"en": defaultPromptTemplate,
	"hi": hindiPromptTemplate,
	"mr": marathiPromptTemplate,
}

// BuildPrompt renders the language's summarization prompt. Unknown
// languages use the English template so the request never fails on a
// missing prompt.
func BuildPrompt(prompts map[string]string, language, title, text string) string {
	if prompts == nil {
		prompts = defaultPrompts
	}
	template, ok := prompts[language]
	if !ok {
		template = prompts["en"]
		if template == "" {
			template = defaultPromptTemplate
		}
	}
	return strings.NewReplacer("{title}", title, "{text}", text).Replace(template)
}
