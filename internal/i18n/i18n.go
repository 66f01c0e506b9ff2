// Package i18n translates user-facing error messages.
package i18n

import (
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the caller asks for nothing we support.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

// SupportedLocales lists the locales with a full catalog.
var SupportedLocales = []string{"en", "pt", "nl"}

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator looks up messages by key and locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator over the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: byLocale(catalog)}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the first supported language from Accept-Language.
// Quality values are not weighed; callers list languages in preference order.
func GetLocale(c *gin.Context) string {
	for part := range strings.SplitSeq(c.GetHeader(AcceptLanguageHeader), ",") {
		lang, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ = strings.Cut(lang, "-")
		lang = strings.ToLower(lang)
		if slices.Contains(SupportedLocales, lang) {
			return lang
		}
	}
	return DefaultLocale
}

// byLocale pivots the per-key catalog into per-locale tables.
func byLocale(entries map[string]translations) map[string]map[string]string {
	out := make(map[string]map[string]string, len(SupportedLocales))
	for _, l := range SupportedLocales {
		out[l] = make(map[string]string, len(entries))
	}
	for key, tr := range entries {
		out["en"][key] = tr.en
		out["pt"][key] = tr.pt
		out["nl"][key] = tr.nl
	}
	return out
}

type translations struct {
	en, pt, nl string
}

var catalog = map[string]translations{
	ErrKeyInvalidRequest:     {"Invalid request", "Requisição inválida", "Ongeldig verzoek"},
	ErrKeyInvalidRequestBody: {"Invalid request body", "Corpo da requisição inválido", "Ongeldige aanvraag body"},
	ErrKeyInternalError:      {"An unexpected error occurred", "Ocorreu um erro inesperado", "Er is een onverwachte fout opgetreden"},
	ErrKeyUnauthorized:       {"Unauthorized", "Não autorizado", "Niet geautoriseerd"},
	ErrKeyAPIKeyRequired:     {"API key is required", "Chave de API é obrigatória", "API-sleutel is vereist"},
	ErrKeyInvalidAPIKey:      {"Invalid API key", "Chave de API inválida", "Ongeldige API-sleutel"},
	ErrKeyInvalidToken:       {"Invalid or expired token", "Token inválido ou expirado", "Ongeldig of verlopen token"},
	ErrKeyTokenRequired:      {"Authentication token is required", "Token de autenticação é obrigatório", "Authenticatietoken is vereist"},
	ErrKeyNotFound:           {"Not found", "Não encontrado", "Niet gevonden"},
	ErrKeyRateLimitExceeded:  {"Too many requests, please try again later", "Muitas requisições, tente novamente mais tarde", "Te veel verzoeken, probeer het later opnieuw"},
	ErrKeyTimeout:            {"The request took too long", "A requisição demorou demais", "Het verzoek duurde te lang"},

	ErrKeyInvalidPayload:      {"Body is not a valid provider payload", "O corpo não é um payload válido do provedor", "Body is geen geldige provider-payload"},
	ErrKeyNotConfirmedOffer:   {"Body is not a confirmed offer", "O corpo não é uma oferta confirmada", "Body is geen bevestigd aanbod"},
	ErrKeyPayloadNotFound:     {"Archived payload not found", "Payload arquivado não encontrado", "Gearchiveerde payload niet gevonden"},
	ErrKeyInvalidPayloadID:    {"Invalid payload id", "ID de payload inválido", "Ongeldige payload-id"},
	ErrKeyArchiveDisabled:     {"Payload archive is disabled", "O arquivo de payloads está desativado", "Payload-archief is uitgeschakeld"},
	ErrKeyProviderDisabled:    {"Pricing provider is not configured", "O provedor de preços não está configurado", "Prijsprovider is niet geconfigureerd"},
	ErrKeyProviderUnavailable: {"Pricing provider is unavailable", "O provedor de preços está indisponível", "Prijsprovider is niet beschikbaar"},
	ErrKeyServiceUnavailable:  {"Service temporarily unavailable", "Serviço temporariamente indisponível", "Dienst tijdelijk niet beschikbaar"},

	ErrKeyValidationAirport:       {"origin and destination must be distinct 3-letter airport codes", "origem e destino devem ser códigos de aeroporto distintos de 3 letras", "vertrek en bestemming moeten verschillende luchthavencodes van 3 letters zijn"},
	ErrKeyValidationDepartureDate: {"departure_date must be a date in YYYY-MM-DD format", "departure_date deve ser uma data no formato AAAA-MM-DD", "departure_date moet een datum in JJJJ-MM-DD formaat zijn"},
	ErrKeyValidationReturnDate:    {"return_date must not be before departure_date", "return_date não pode ser anterior a departure_date", "return_date mag niet voor departure_date liggen"},
	ErrKeyValidationPassengers:    {"at least one adult and at most 9 passengers are required", "são necessários pelo menos um adulto e no máximo 9 passageiros", "minimaal één volwassene en maximaal 9 passagiers zijn vereist"},
	ErrKeyValidationInfants:       {"infants cannot outnumber adults", "bebês não podem exceder o número de adultos", "baby's mogen niet talrijker zijn dan volwassenen"},
}
