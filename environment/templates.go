package environment

import "text/template"

const templateTypeScriptS = `// generated by coffee-shop-env from profile {{.Profile}}, do not edit

export const environment = {
  production: {{.Config.Production}},
  apiServerUrl: '{{js .Config.APIServerURL}}',
  auth: {
    domainPrefix: '{{js .Config.Auth.DomainPrefix}}',
    audience: '{{js .Config.Auth.Audience}}',
    clientId: '{{js .Config.Auth.ClientID}}',
    callbackUrl: '{{js .Config.Auth.CallbackURL}}',
  },
};
`

var templateTypeScript = template.Must(template.New("").Parse(templateTypeScriptS))

type templateTypeScriptParams struct {
	Profile Profile
	Config  Config
}
