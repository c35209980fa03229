// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// localTopic is one built-in article used when no provider is reachable.
type localTopic struct {
	Title    string
	Tags     []string
	Language string
	Intro    string
	Code     string
	Points   []string
}

var localTopics = []localTopic{
	{
		Title:    "Cómo usar async/await en JavaScript sin perder el control",
		Tags:     []string{"javascript", "async"},
		Language: "javascript",
		Intro:    "Las promesas son la base de la programación asíncrona moderna en JavaScript, y async/await las vuelve legibles.",
		Code: `async function cargarUsuarios() {
  try {
    const res = await fetch("/api/usuarios");
    if (!res.ok) throw new Error("Error " + res.status);
    return await res.json();
  } catch (err) {
    console.error(err);
    return [];
  }
}`,
		Points: []string{
			"Envuelve cada await que pueda fallar en try/catch.",
			"Usa Promise.all cuando las tareas no dependen entre sí.",
			"Comprueba res.ok antes de leer el cuerpo de una respuesta.",
		},
	},
	{
		Title:    "Comprensiones de listas en Python: guía práctica",
		Tags:     []string{"python", "listas"},
		Language: "python",
		Intro:    "Las comprensiones de listas permiten transformar y filtrar colecciones en una sola línea clara.",
		Code: `numeros = [1, 2, 3, 4, 5, 6]
pares_al_cuadrado = [n * n for n in numeros if n % 2 == 0]
print(pares_al_cuadrado)  # [4, 16, 36]`,
		Points: []string{
			"Prefiere comprensiones a bucles con append para transformaciones simples.",
			"Si la expresión crece demasiado, vuelve a un bucle for normal.",
			"Usa generadores entre paréntesis para colecciones muy grandes.",
		},
	},
	{
		Title:    "Flexbox y Grid: cuándo usar cada uno en CSS",
		Tags:     []string{"css", "layout"},
		Language: "css",
		Intro:    "Flexbox organiza elementos en una dimensión; Grid domina los diseños en dos dimensiones.",
		Code: `.galeria {
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
  gap: 1rem;
}

.barra {
  display: flex;
  justify-content: space-between;
  align-items: center;
}`,
		Points: []string{
			"Usa Flexbox para barras de navegación y alineación de componentes.",
			"Usa Grid para la estructura general de la página.",
			"Ambos se combinan sin problema en el mismo diseño.",
		},
	},
	{
		Title:    "Tipos de utilidad en TypeScript que deberías conocer",
		Tags:     []string{"typescript", "tipos"},
		Language: "ts",
		Intro:    "TypeScript incluye tipos de utilidad que ahorran código repetido al modelar datos.",
		Code: `interface Usuario {
  id: number;
  nombre: string;
  email: string;
}

type UsuarioParcial = Partial<Usuario>;
type SoloContacto = Pick<Usuario, "nombre" | "email">;`,
		Points: []string{
			"Partial marca todas las propiedades como opcionales.",
			"Pick y Omit crean subconjuntos de un tipo existente.",
			"Readonly evita mutaciones accidentales.",
		},
	},
	{
		Title:    "Crea tu primera API REST con Node.js y Express",
		Tags:     []string{"node", "api"},
		Language: "node",
		Intro:    "Express sigue siendo la forma más rápida de levantar una API REST sencilla con Node.js.",
		Code: `import express from "express";

const app = express();
app.use(express.json());

app.get("/api/saludo", (req, res) => {
  res.json({ mensaje: "Hola desde EduKoder" });
});

app.listen(3000);`,
		Points: []string{
			"Valida siempre el cuerpo de las peticiones entrantes.",
			"Devuelve códigos de estado HTTP coherentes.",
			"Centraliza el manejo de errores en un middleware.",
		},
	},
}

// LocalArticle returns a raw article item built from the topic list. The
// topic is chosen from now so consecutive runs rotate through the list.
func LocalArticle(now time.Time) RawItem {
	t := localTopics[int(now.Unix()/60)%len(localTopics)]

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Introducción</h2>\n<p>%s</p>\n", html.EscapeString(t.Intro))
	fmt.Fprintf(&b, "<h2>Ejemplo</h2>\n<pre><code class=\"language-%s\">%s</code></pre>\n",
		t.Language, html.EscapeString(t.Code))
	b.WriteString("<h2>Buenas prácticas</h2>\n<ul>\n")
	for _, p := range t.Points {
		fmt.Fprintf(&b, "  <li>%s</li>\n", html.EscapeString(p))
	}
	b.WriteString("</ul>\n")
	b.WriteString("<h2>Conclusión</h2>\n<p>Practica con pequeños proyectos y vuelve a EduKoder para seguir aprendiendo.</p>\n")

	return RawItem{
		"title":   t.Title,
		"excerpt": t.Intro,
		"content": b.String(),
		"tags":    t.Tags,
	}
}
