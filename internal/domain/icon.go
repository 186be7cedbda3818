package domain

import "strings"

// DefaultIcon is used when no keyword matches a category name.
const DefaultIcon = "bi bi-cash-coin"

type iconRule struct {
	keyword string
	icon    string
}

// iconRules is scanned in order; the first keyword contained in the
// lowercased name wins, so earlier rows shadow later ones.
var iconRules = [...]iconRule{
	{"luz", "bi bi-lightbulb-fill"},
	{"energia", "bi bi-lightning-charge-fill"},
	{"internet", "bi bi-wifi"},
	{"telefone", "bi bi-phone"},
	{"água", "bi bi-droplet-half"},
	{"netflix", "bi bi-tv-fill"},
	{"spotify", "bi bi-music-note-beamed"},
	{"amazon", "bi bi-box-seam-fill"},
	{"prime", "bi bi-box-seam-fill"},
	{"mercado", "bi bi-basket-fill"},
	{"supermercado", "bi bi-cart4"},
	{"aluguel", "bi bi-house-door-fill"},
	{"condomínio", "bi bi-building"},
	{"limpeza", "bi bi-bucket-fill"},
	{"móveis", "bi bi-couch"},
	{"eletrodoméstico", "bi bi-plug-fill"},
	{"transporte", "bi bi-truck-front"},
	{"carro", "bi bi-car-front-fill"},
	{"uber", "bi bi-taxi-front-fill"},
	{"gasolina", "bi bi-fuel-pump-fill"},
	{"combustível", "bi bi-fuel-pump-fill"},
	{"passagem", "bi bi-ticket-detailed"},
	{"ônibus", "bi bi-bus-front-fill"},
	{"viagem", "bi bi-airplane-fill"},
	{"comida", "bi bi-cup-straw"},
	{"lanches", "bi bi-cup-hot-fill"},
	{"restaurante", "bi bi-egg-fried"},
	{"pizza", "bi bi-pie-chart-fill"},
	{"hamburguer", "bi bi-cup-hot-fill"},
	{"delivery", "bi bi-truck"},
	{"remédio", "bi bi-capsule-pill"},
	{"farmácia", "bi bi-capsule"},
	{"médico", "bi bi-heart-pulse-fill"},
	{"plano", "bi bi-card-checklist"},
	{"hospital", "bi bi-hospital-fill"},
	{"salário", "bi bi-cash-stack"},
	{"freela", "bi bi-briefcase-fill"},
	{"pix", "bi bi-qr-code-scan"},
	{"renda", "bi bi-graph-up"},
	{"venda", "bi bi-cart-check-fill"},
	{"bônus", "bi bi-award-fill"},
	{"banco", "bi bi-bank"},
	{"transferência", "bi bi-arrow-left-right"},
	{"cartao", "bi bi-credit-card-2-back-fill"},
	{"cartão", "bi bi-credit-card-2-back-fill"},
	{"boleto", "bi bi-receipt"},
	{"nubank", "bi bi-credit-card"},
	{"inter", "bi bi-bank"},
	{"santander", "bi bi-building-fill"},
	{"bradesco", "bi bi-piggy-bank-fill"},
	{"itau", "bi bi-wallet2"},
	{"carteira", "bi bi-wallet-fill"},
	{"poupança", "bi bi-piggy-bank-fill"},
	{"investimento", "bi bi-bar-chart-fill"},
	{"cripto", "bi bi-currency-bitcoin"},
	{"ações", "bi bi-graph-up-arrow"},
	{"outro", "bi bi-tag-fill"},
	{"roupas", "bi bi-shop-window"},
	{"presentes", "bi bi-gift-fill"},
	{"academia", "bi bi-dumbbell"},
	{"pets", "bi bi-paw-fill"},
	{"filmes", "bi bi-film"},
	{"estudos", "bi bi-book-half"},
	{"educação", "bi bi-mortarboard-fill"},
	{"curso", "bi bi-easel-fill"},
	{"eventos", "bi bi-calendar-event-fill"},
}

// ResolveIcon returns the icon for the first keyword found in name,
// or DefaultIcon when none match.
func ResolveIcon(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range iconRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.icon
		}
	}
	return DefaultIcon
}
