package ingest

import "github.com/cognicore/newslex/pkg/newslex/article"

// Standard stopword lists per supported language. The effective set for a
// normalizer is the union of the standard list and any custom extension the
// caller supplies; both are frozen at construction time so concurrent
// normalization of different languages cannot interfere.

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "did", "do",
	"does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is",
	"it", "its", "itself", "just", "me", "more", "most", "my", "myself",
	"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "ourselves", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their", "theirs",
	"them", "themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "you", "your", "yours", "yourself", "yourselves",
}

var portugueseStopwords = []string{
	"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
	"as", "até", "com", "como", "da", "das", "de", "dela", "delas", "dele",
	"deles", "depois", "do", "dos", "e", "ela", "elas", "ele", "eles", "em",
	"entre", "era", "eram", "essa", "essas", "esse", "esses", "esta",
	"estamos", "estas", "estava", "estavam", "este", "esteja", "estejam",
	"estes", "esteve", "estive", "estivemos", "estiver", "estiveram", "estou",
	"está", "estão", "eu", "foi", "fomos", "for", "foram", "fosse", "fossem",
	"fui", "há", "isso", "isto", "já", "lhe", "lhes", "mais", "mas", "me",
	"mesmo", "meu", "meus", "minha", "minhas", "muito", "na", "nas", "nem",
	"no", "nos", "nossa", "nossas", "nosso", "nossos", "num", "numa", "não",
	"nós", "o", "os", "ou", "para", "pela", "pelas", "pelo", "pelos", "por",
	"qual", "quando", "que", "quem", "se", "seja", "sejam", "sem", "ser",
	"serei", "seremos", "seria", "seriam", "será", "serão", "seu", "seus",
	"somos", "sou", "sua", "suas", "são", "só", "também", "te", "tem",
	"temos", "tenha", "tenham", "tenho", "ter", "terei", "teremos", "teria",
	"teriam", "terá", "terão", "teu", "teus", "teve", "tinha", "tinham",
	"tive", "tivemos", "tiver", "tiveram", "tivesse", "tivessem", "tu",
	"tua", "tuas", "um", "uma", "você", "vocês", "vos", "à", "às", "é",
	"éramos",
}

// standardStopwords returns the built-in list for a language, or nil when the
// language is not supported.
func standardStopwords(lang article.Language) []string {
	switch lang {
	case article.English:
		return englishStopwords
	case article.Portuguese:
		return portugueseStopwords
	default:
		return nil
	}
}
