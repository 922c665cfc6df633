// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

// Built-in keyword lists used by the OpportunityScorer. Entries are lower
// case. Single words match on word boundaries; entries with a space match
// as literal phrases. Lists cover en, es, fr, de and pt.
//
// Short acknowledgements such as "ok" are intentionally absent from the
// chitchat list: they fall through to the short-text rule.

var sensitiveKeywords = []string{
	// en: mental health and crisis
	"suicide", "suicidal", "kill myself", "end my life", "self harm", "self-harm",
	"depressed", "depression", "anxiety", "panic attack", "sad", "grief", "grieving",
	"lonely", "hopeless", "worthless", "abuse", "abused", "overdose", "crisis",
	"eating disorder", "trauma", "ptsd",
	// en: legal
	"lawsuit", "lawyer", "attorney", "sued", "arrested", "custody", "divorce",
	"court case", "criminal charges",
	// en: medical
	"diagnosis", "diagnosed", "cancer", "chemotherapy", "symptoms", "prescription",
	"medication", "therapist", "miscarriage", "hiv", "terminal illness", "hospital",
	"funeral", "passed away",
	// es
	"suicidio", "depresión", "deprimido", "deprimida", "ansiedad", "triste",
	"abogado", "diagnóstico", "cáncer", "hospitalizado",
	// fr
	"dépression", "déprimé", "déprimée", "anxiété", "avocate", "diagnostic",
	"hôpital", "me suicider",
	// de
	"selbstmord", "traurig", "angststörung", "anwalt", "krankenhaus", "diagnose",
	"krebs",
	// pt
	"suicídio", "depressão", "deprimido", "ansiedade", "advogado", "diagnóstico",
	"câncer",
}

var chitchatKeywords = []string{
	// en
	"hi", "hello", "hey", "howdy", "greetings", "thanks", "thank you", "thx",
	"cheers", "bye", "goodbye", "good morning", "good afternoon", "good evening",
	"good night", "how are you", "what's up", "see you", "nice to meet you",
	// es
	"hola", "gracias", "adiós", "buenos días", "buenas noches", "hasta luego",
	// fr
	"bonjour", "bonsoir", "salut", "merci", "au revoir",
	// de
	"hallo", "danke", "tschüss", "guten morgen", "guten tag", "auf wiedersehen",
	// pt
	"olá", "obrigado", "obrigada", "tchau", "bom dia", "boa noite",
}

var highIntentKeywords = []string{
	// en: purchase verbs
	"buy", "buying", "purchase", "purchasing", "shop", "shopping", "checkout",
	"subscribe", "subscription", "place an order", "order online", "sign up",
	"free trial",
	// en: comparison
	"compare", "comparison", "versus", "vs", "best", "cheapest", "cheaper",
	"alternative to", "recommend", "recommendation",
	// en: pricing and discounts
	"price", "prices", "pricing", "cost", "costs", "cheap", "deal", "deals",
	"discount", "coupon", "promo", "sale", "how much",
	// en: conversion phrases
	"where can i get", "where to buy", "looking for", "in stock", "for sale",
	// es
	"comprar", "precio", "precios", "descuento", "oferta", "barato", "cuánto cuesta",
	// fr
	"acheter", "prix", "réduction", "promotion", "moins cher", "combien coûte",
	// de
	"kaufen", "preis", "preise", "rabatt", "angebot", "günstig", "bestellen",
	// pt
	"preço", "preços", "desconto", "promoção", "quanto custa",
}

func mergeKeywords(builtin, extra []string) []string {
	out := make([]string, 0, len(builtin)+len(extra))
	out = append(out, builtin...)
	return append(out, extra...)
}
