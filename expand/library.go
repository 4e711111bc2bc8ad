package expand

import (
	"strings"

	"github.com/teranos/emmet/syntax"
)

// Snippet is a built-in abbreviation template
type Snippet struct {
	Key   string
	Value string
}

// markupSnippets expand through the markup parser, so values are
// abbreviations themselves. Text in braces is emitted verbatim.
var markupSnippets = []Snippet{
	{"a", "a[href]"},
	{"a:blank", "a[href='http://${1}' target='_blank' rel='noopener noreferrer']"},
	{"a:link", "a[href='http://${1}']"},
	{"a:mail", "a[href='mailto:${1}']"},
	{"a:tel", "a[href='tel:+${1}']"},
	{"abbr", "abbr[title]"},
	{"acr", "acronym[title]"},
	{"base", "base[href]/"},
	{"basefont", "basefont/"},
	{"br", "br/"},
	{"frame", "frame/"},
	{"hr", "hr/"},
	{"bdo", "bdo[dir]"},
	{"bdo:r", "bdo[dir=rtl]"},
	{"bdo:l", "bdo[dir=ltr]"},
	{"col", "col/"},
	{"link", "link[rel=stylesheet href]/"},
	{"link:css", "link[href='${1:style}.css']"},
	{"link:print", "link[href='${1:print}.css' media=print]"},
	{"link:favicon", "link[rel='shortcut icon' type=image/x-icon href='${1:favicon.ico}']"},
	{"link:mf", "link[rel=manifest href='${1:manifest.json}']"},
	{"link:touch", "link[rel=apple-touch-icon href='${1:favicon.png}']"},
	{"link:rss", "link[rel=alternate type=application/rss+xml title=RSS href='${1:rss.xml}']"},
	{"link:atom", "link[rel=alternate type=application/atom+xml title=Atom href='${1:atom.xml}']"},
	{"link:im", "link[rel=import href='${1:component}.html']"},
	{"meta", "meta/"},
	{"meta:utf", "meta[http-equiv=Content-Type content='text/html;charset=UTF-8']"},
	{"meta:vp", "meta[name=viewport content='width=${1:device-width}, initial-scale=${2:1.0}']"},
	{"meta:compat", "meta[http-equiv=X-UA-Compatible content='${1:IE=7}']"},
	{"meta:edge", "meta:compat[content='${1:ie=edge}']"},
	{"meta:redirect", "meta[http-equiv=refresh content='0; url=${1:http://example.com}']"},
	{"meta:kw", "meta[name=keywords content]"},
	{"meta:desc", "meta[name=description content]"},
	{"style", "style"},
	{"script", "script"},
	{"script:src", "script[src]"},
	{"script:module", "script[type=module src]"},
	{"img", "img[src alt]/"},
	{"img:s", "img:srcset"},
	{"img:srcset", "img[srcset src alt]"},
	{"img:z", "img:sizes"},
	{"img:sizes", "img[sizes srcset src alt]"},
	{"picture", "picture"},
	{"src", "source/"},
	{"src:sc", "source[src type]"},
	{"iframe", "iframe[src frameborder=0]"},
	{"embed", "embed[src type]/"},
	{"object", "object[data type]"},
	{"param", "param[name value]/"},
	{"map", "map[name]"},
	{"area", "area[shape coords href alt]/"},
	{"area:d", "area[shape=default]"},
	{"area:c", "area[shape=circle]"},
	{"area:r", "area[shape=rect]"},
	{"area:p", "area[shape=poly]"},
	{"form", "form[action]"},
	{"form:get", "form[method=get]"},
	{"form:post", "form[method=post]"},
	{"label", "label[for]"},
	{"input", "input[type=${1:text}]/"},
	{"inp", "input[name=${1} id=${1}]"},
	{"input:h", "input:hidden"},
	{"input:hidden", "input[type=hidden name]"},
	{"input:t", "input"},
	{"input:text", "input"},
	{"input:search", "input[type=search]"},
	{"input:email", "input[type=email]"},
	{"input:url", "input[type=url]"},
	{"input:p", "input:password"},
	{"input:password", "input[type=password]"},
	{"input:datetime", "input[type=datetime]"},
	{"input:date", "input[type=date]"},
	{"input:month", "input[type=month]"},
	{"input:week", "input[type=week]"},
	{"input:time", "input[type=time]"},
	{"input:tel", "input[type=tel]"},
	{"input:number", "input[type=number]"},
	{"input:color", "input[type=color]"},
	{"input:c", "input:checkbox"},
	{"input:checkbox", "input[type=checkbox]"},
	{"input:r", "input:radio"},
	{"input:radio", "input[type=radio]"},
	{"input:range", "input[type=range]"},
	{"input:f", "input:file"},
	{"input:file", "input[type=file]"},
	{"input:s", "input:submit"},
	{"input:submit", "input[type=submit value]"},
	{"input:i", "input:image"},
	{"input:image", "input[type=image src alt]"},
	{"input:b", "input:button"},
	{"input:button", "input[type=button value]"},
	{"input:reset", "input:button[type=reset]"},
	{"isindex", "isindex/"},
	{"select", "select[name=${1} id=${1}]"},
	{"select:d", "select[name=${1} id=${1} disabled.]"},
	{"opt", "option[value]"},
	{"option", "option[value]"},
	{"textarea", "textarea[name=${1} id=${1} cols=${2:30} rows=${3:10}]"},
	{"marquee", "marquee[behavior direction]"},
	{"menu:c", "menu:context"},
	{"menu:context", "menu[type=context]"},
	{"menu:t", "menu:toolbar"},
	{"menu:toolbar", "menu[type=toolbar]"},
	{"video", "video[src]"},
	{"audio", "audio[src]"},
	{"html:xml", "html[xmlns=http://www.w3.org/1999/xhtml]"},
	{"keygen", "keygen/"},
	{"command", "command/"},
	{"btn", "button"},
	{"btn:s", "button[type=submit]"},
	{"btn:r", "button[type=reset]"},
	{"btn:b", "button[type=button]"},
	{"btn:d", "btn[disabled.]"},
	{"fst:d", "fset[disabled.]"},
	{"fset:d", "fset[disabled.]"},
	{"fst", "fieldset"},
	{"fset", "fieldset"},
	{"optg", "optgroup"},
	{"ri:d", "ri:dpr"},
	{"ri:dpr", "img:s"},
	{"ri:v", "ri:viewport"},
	{"ri:viewport", "img:z"},
	{"ri:a", "ri:art"},
	{"ri:art", "pic>src:mq+img"},
	{"ri:t", "ri:type"},
	{"ri:type", "pic>src:t+img"},
	{"src:mq", "source[media='(${1:min-width: })' srcset]"},
	{"src:t", "source[srcset type=image/${1}]"},
	{"pic", "picture"},
	{"tarea", "textarea"},
	{"leg", "legend"},
	{"sect", "section"},
	{"art", "article"},
	{"hdr", "header"},
	{"ftr", "footer"},
	{"adr", "address"},
	{"dlg", "dialog"},
	{"str", "strong"},
	{"prog", "progress"},
	{"mn", "main"},
	{"tem", "template"},
	{"fig", "figure"},
	{"figc", "figcaption"},
	{"cap", "caption"},
	{"colg", "colgroup"},
	{"ol+", "ol>li"},
	{"ul+", "ul>li"},
	{"dl+", "dl>dt+dd"},
	{"map+", "map>area"},
	{"table+", "table>tr>td"},
	{"colgroup+", "colgroup>col"},
	{"colg+", "colgroup>col"},
	{"tr+", "tr>td"},
	{"select+", "select>option"},
	{"optgroup+", "optgroup>option"},
	{"optg+", "optgroup>option"},
	{"pic+", "picture>source:srcset+img"},
	{"bq", "blockquote"},
	{"!!!", "{<!DOCTYPE html>}"},
	{"doc", "html[lang=${lang}]>(head>meta[charset=${charset}]+meta:vp+title{${1:Document}})+body"},
	{"!", "!!!+doc"},
	{"c", "{<!-- ${1} -->}"},
	{"cc:ie", "{<!--[if IE]>${1}<![endif]-->}"},
	{"cc:noie", "{<!--[if !IE]><!-->${1}<!--<![endif]-->}"},
}

// stylesheetSnippets map a key to "property: value" declarations. Order
// matters: fuzzy matching prefers the earlier of equally good matches.
var stylesheetSnippets = []Snippet{
	{"@f", "@font-face {\n\tfont-family: ${1};\n\tsrc: url(${2});\n}"},
	{"@i", "@import url(${1});"},
	{"@m", "@media ${1:screen} {\n\t${2}\n}"},
	{"@kf", "@keyframes ${1:identifier} {\n\t${2}\n}"},
	{"@cs", "@charset ${1};"},
	{"!", "!important"},
	{"pos", "position: ${1:relative}"},
	{"pos:s", "position: static"},
	{"pos:a", "position: absolute"},
	{"pos:r", "position: relative"},
	{"pos:f", "position: fixed"},
	{"t", "top: ${1}"},
	{"r", "right: ${1}"},
	{"b", "bottom: ${1}"},
	{"l", "left: ${1}"},
	{"z", "z-index: ${1}"},
	{"fl", "float: ${1:left}"},
	{"fl:n", "float: none"},
	{"fl:l", "float: left"},
	{"fl:r", "float: right"},
	{"cl", "clear: ${1:both}"},
	{"d", "display: ${1:block}"},
	{"d:n", "display: none"},
	{"d:b", "display: block"},
	{"d:f", "display: flex"},
	{"d:if", "display: inline-flex"},
	{"d:i", "display: inline"},
	{"d:ib", "display: inline-block"},
	{"d:g", "display: grid"},
	{"v", "visibility: ${1:hidden}"},
	{"ov", "overflow: ${1:hidden}"},
	{"ovx", "overflow-x: ${1:hidden}"},
	{"ovy", "overflow-y: ${1:hidden}"},
	{"zoo", "zoom: ${1:1}"},
	{"cp", "clip: ${1:auto}"},
	{"bxz", "box-sizing: ${1:border-box}"},
	{"bxsh", "box-shadow: ${1:inset }${2:hoff} ${3:voff} ${4:blur} ${5:color}"},
	{"m", "margin: ${1}"},
	{"mt", "margin-top: ${1}"},
	{"mr", "margin-right: ${1}"},
	{"mb", "margin-bottom: ${1}"},
	{"ml", "margin-left: ${1}"},
	{"p", "padding: ${1}"},
	{"pt", "padding-top: ${1}"},
	{"pr", "padding-right: ${1}"},
	{"pb", "padding-bottom: ${1}"},
	{"pl", "padding-left: ${1}"},
	{"w", "width: ${1}"},
	{"h", "height: ${1}"},
	{"maw", "max-width: ${1}"},
	{"mah", "max-height: ${1}"},
	{"miw", "min-width: ${1}"},
	{"mih", "min-height: ${1}"},
	{"ol", "outline: ${1}"},
	{"olc", "outline-color: ${1:#000}"},
	{"bd", "border: ${1:1px} ${2:solid} ${3:#000}"},
	{"bdt", "border-top: ${1:1px} ${2:solid} ${3:#000}"},
	{"bdr", "border-right: ${1:1px} ${2:solid} ${3:#000}"},
	{"bdb", "border-bottom: ${1:1px} ${2:solid} ${3:#000}"},
	{"bdl", "border-left: ${1:1px} ${2:solid} ${3:#000}"},
	{"bdrs", "border-radius: ${1}"},
	{"bdc", "border-color: ${1:#000}"},
	{"bdw", "border-width: ${1}"},
	{"bds", "border-style: ${1}"},
	{"bdcl", "border-collapse: ${1}"},
	{"bg", "background: ${1:#000}"},
	{"bgc", "background-color: ${1:#fff}"},
	{"bgi", "background-image: url(${1})"},
	{"bgr", "background-repeat: ${1}"},
	{"bgp", "background-position: ${1:0} ${2:0}"},
	{"bgs", "background-size: ${1}"},
	{"bga", "background-attachment: ${1}"},
	{"bgcp", "background-clip: ${1:padding-box}"},
	{"bdi", "border-image: url(${1})"},
	{"c", "color: ${1:#000}"},
	{"op", "opacity: ${1}"},
	{"cur", "cursor: ${1:pointer}"},
	{"tbl", "table-layout: ${1}"},
	{"lis", "list-style: ${1}"},
	{"lisp", "list-style-position: ${1}"},
	{"list", "list-style-type: ${1}"},
	{"q", "quotes: ${1}"},
	{"ct", "content: ${1}"},
	{"va", "vertical-align: ${1:top}"},
	{"ta", "text-align: ${1:left}"},
	{"td", "text-decoration: ${1:none}"},
	{"te", "text-emphasis: ${1}"},
	{"th", "text-height: ${1}"},
	{"ti", "text-indent: ${1}"},
	{"tov", "text-overflow: ${1:ellipsis}"},
	{"tsh", "text-shadow: ${1:hoff} ${2:voff} ${3:blur} ${4:#000}"},
	{"tt", "text-transform: ${1:uppercase}"},
	{"lh", "line-height: ${1}"},
	{"whs", "white-space: ${1}"},
	{"wob", "word-break: ${1}"},
	{"wow", "word-wrap: ${1}"},
	{"lts", "letter-spacing: ${1}"},
	{"f", "font: ${1}"},
	{"fw", "font-weight: ${1}"},
	{"fw:b", "font-weight: bold"},
	{"fw:n", "font-weight: normal"},
	{"fs", "font-style: ${1:italic}"},
	{"fz", "font-size: ${1}"},
	{"ff", "font-family: ${1}"},
	{"fv", "font-variant: ${1}"},
	{"ant", "animation: ${1}"},
	{"trf", "transform: ${1}"},
	{"trs", "transition: ${1:prop} ${2:time}"},
	{"fx", "flex: ${1}"},
	{"fxd", "flex-direction: ${1}"},
	{"fxw", "flex-wrap: ${1}"},
	{"fxg", "flex-grow: ${1}"},
	{"fxsh", "flex-shrink: ${1}"},
	{"fxb", "flex-basis: ${1}"},
	{"ord", "order: ${1}"},
	{"ai", "align-items: ${1}"},
	{"ac", "align-content: ${1}"},
	{"as", "align-self: ${1}"},
	{"jc", "justify-content: ${1}"},
	{"g", "gap: ${1}"},
	{"gtc", "grid-template-columns: ${1}"},
	{"gtr", "grid-template-rows: ${1}"},
	{"gc", "grid-column: ${1}"},
	{"gr", "grid-row: ${1}"},
	{"rsz", "resize: ${1}"},
	{"us", "user-select: ${1:none}"},
	{"pe", "pointer-events: ${1:none}"},
	{"wfsm", "-webkit-font-smoothing: ${1:antialiased}"},
}

// unitless properties take bare numbers
var unitless = map[string]bool{
	"z-index": true, "line-height": true, "opacity": true, "font-weight": true,
	"zoom": true, "flex": true, "flex-grow": true, "flex-shrink": true,
	"order": true, "orphans": true, "widows": true,
}

// Library returns the built-in snippets of a grammar family in lookup order
func Library(family syntax.Family) []Snippet {
	src := markupSnippets
	if family == syntax.Stylesheet {
		src = stylesheetSnippets
	}
	out := make([]Snippet, len(src))
	copy(out, src)
	return out
}

var (
	markupIndex     = index(markupSnippets)
	stylesheetIndex = index(stylesheetSnippets)
	// properties lists each distinct stylesheet property once, first
	// occurrence first
	properties = propertyNames(stylesheetSnippets)
)

func index(snippets []Snippet) map[string]string {
	m := make(map[string]string, len(snippets))
	for _, s := range snippets {
		m[s.Key] = s.Value
	}
	return m
}

func propertyNames(snippets []Snippet) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range snippets {
		name, _, ok := strings.Cut(s.Value, ":")
		if !ok || strings.HasPrefix(s.Value, "@") || strings.ContainsAny(name, " {") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// lookup finds key among custom snippets, then the built-in library
func lookup(custom map[string]string, library map[string]string, key string) (string, bool) {
	if v, ok := custom[key]; ok {
		return v, true
	}
	v, ok := library[key]
	return v, ok
}
